// internal/haplocli/options.go
package haplocli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"postoga/internal/version"
)

// DefaultRule is the classification tier order used when the caller does
// not supply one, best first.
const DefaultRule = "I>PI>UL>L>M>PM>PG>NF"

// Options holds all CLI flags for the haplotype branch.
type Options struct {
	Paths    []string // predictor result directories, one per assembly
	Rule     string
	Source   string // query | loss
	OutDir   string // defaults to the first path
	LogLevel string
	Version  bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: consensus classification across haplotype assemblies

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	var paths string

	fs.StringVar(&paths, "paths", "", "comma-separated predictor result directories (path1,path2,...) [*]")
	fs.StringVar(&opt.Rule, "rule", DefaultRule, "tier order electing the best class, best first")
	fs.StringVar(&opt.Source, "source", "loss", "source of per-assembly classes: query | loss [loss]")
	fs.StringVar(&opt.OutDir, "outdir", "", "directory for the consensus table (default: first path)")
	fs.StringVar(&opt.LogLevel, "level", "info", "logging verbosity: debug | info | warn | off [info]")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	for _, p := range strings.Split(paths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			opt.Paths = append(opt.Paths, p)
		}
	}
	if len(opt.Paths) < 2 {
		return opt, errors.New("--paths needs at least two directories")
	}
	if opt.Source != "query" && opt.Source != "loss" {
		return opt, fmt.Errorf("invalid --source %q", opt.Source)
	}
	if opt.OutDir == "" {
		opt.OutDir = opt.Paths[0]
	}
	return opt, nil
}
