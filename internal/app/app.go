// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"postoga/internal/cli"
	"postoga/internal/config"
	"postoga/internal/logging"
	"postoga/internal/togadir"
	"postoga/internal/version"
	"postoga/internal/writers"
)

// RunContext is the postoga entry point: parse flags, merge the optional
// run profile, plan the run, execute. Exit codes: 0 ok, 1 runtime error,
// 2 usage error, 3 stdout write failure.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	// flush drains buffered stdout; a consumer like `head` closing the
	// pipe early is a clean shutdown, not a failure.
	flush := func(code int) int {
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
		return code
	}

	fs := cli.NewFlagSet("postoga")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flush(0)
		}
		fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(2)
	}
	if opts.Version {
		fmt.Fprintf(outw, "postoga version %s\n", version.Version)
		return flush(0)
	}

	if opts.Profile != "" {
		profile, err := config.Load(opts.Profile)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		profile.Apply(&opts)
	}

	log := logging.New(opts.LogLevel, stderr)

	run, err := togadir.New(opts, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := run.Execute(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// Run wraps RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
