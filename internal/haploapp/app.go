// internal/haploapp/app.go

// Package haploapp wires the haplotype branch: N predictor result
// directories for assemblies of the same organism are loaded concurrently,
// turned into per-assembly class tables and merged into one consensus
// classification per transcript.
package haploapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"postoga/internal/haplocli"
	"postoga/internal/logging"
	"postoga/internal/togadir"
	"postoga/internal/version"
	"postoga/internal/writers"
	"postoga-core/bed"
	"postoga-core/consensus"
	"postoga-core/opt"
	"postoga-core/reconcile"
	"postoga-core/sources"
)

// loadQueryTable reconciles one assembly directory and keys its projections
// on the chain-stripped transcript id so assemblies join despite each
// having its own chain numbering. Projections absent from the coordinate
// file are skipped.
func loadQueryTable(dir string, log zerolog.Logger) (consensus.Table, error) {
	orthology, err := sources.LoadOrthology(filepath.Join(dir, togadir.OrthologyFile))
	if err != nil {
		return nil, err
	}
	loss, err := sources.LoadLossSummary(filepath.Join(dir, togadir.LossFile))
	if err != nil {
		return nil, err
	}
	scores, err := sources.LoadScores(filepath.Join(dir, togadir.ScoresFile), log)
	if err != nil {
		return nil, err
	}
	overrides, err := sources.LoadGeneOverrides(filepath.Join(dir, togadir.OverridesFile))
	if err != nil {
		var missing *sources.MissingInputError
		if !errors.As(err, &missing) {
			return nil, err
		}
		overrides = map[string]string{}
	}
	projections := reconcile.Reconcile(orthology, loss, scores, overrides, log)

	recs, err := bed.Read(filepath.Join(dir, togadir.BedFile))
	if err != nil {
		return nil, err
	}
	inBed := make(map[string]bool, len(recs))
	for _, r := range recs {
		inBed[r.Helper()] = true
	}

	table := make(consensus.Table, 0, len(projections))
	for _, p := range projections {
		if !inBed[p.QueryTranscript] {
			continue
		}
		table = append(table, consensus.Row{
			Transcript: sources.DropChainSuffix(p.QueryTranscript),
			Class:      p.LossStatus.Or(consensus.NotFound),
			Gene:       p.ReferenceGene,
			Helper:     p.ReferenceTranscript,
			Relation:   p.OrthologyClass,
		})
	}
	return table, nil
}

// loadLossTable reads one assembly's loss rows directly, without
// reconciling. All three roll-up levels participate: projection rows key on
// the projection id, transcript and gene rows on their own identifiers, so
// the chain-free roll-ups join across assemblies.
func loadLossTable(dir string) (consensus.Table, error) {
	loss, err := sources.LoadLossRaw(filepath.Join(dir, togadir.LossFile))
	if err != nil {
		return nil, err
	}
	table := make(consensus.Table, 0, len(loss))
	for _, l := range loss {
		table = append(table, consensus.Row{
			Transcript: l.QueryTranscript,
			Class:      l.LossStatus,
			Level:      opt.Of(l.Level),
		})
	}
	return table, nil
}

// Merge loads every directory concurrently and elects the consensus.
func Merge(ctx context.Context, opts haplocli.Options, log zerolog.Logger) ([]consensus.Consensus, consensus.Source, error) {
	source := consensus.SourceLoss
	if opts.Source == "query" {
		source = consensus.SourceQuery
	}

	rule, err := consensus.ParseRule(opts.Rule)
	if err != nil {
		return nil, source, err
	}

	tables := make([]consensus.Table, len(opts.Paths))
	g, _ := errgroup.WithContext(ctx)
	for i, dir := range opts.Paths {
		i, dir := i, dir
		g.Go(func() error {
			var t consensus.Table
			var err error
			if source == consensus.SourceQuery {
				t, err = loadQueryTable(dir, log)
			} else {
				t, err = loadLossTable(dir)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, source, err
	}

	merged, err := consensus.Merge(tables, rule, log)
	return merged, source, err
}

// RunContext is the postoga-haplotype entry point.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	flush := func(code int) int {
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
		return code
	}

	fs := haplocli.NewFlagSet("postoga-haplotype")
	fs.SetOutput(io.Discard)

	opts, err := haplocli.ParseArgs(fs, argv)
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
		fmt.Fprintf(outw, "postoga-haplotype version %s\n", version.Version)
		return flush(0)
	}

	log := logging.New(opts.LogLevel, stderr)

	merged, source, err := Merge(ctx, opts, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	outPath := filepath.Join(opts.OutDir, togadir.ConsensusFile)
	if err := writers.WriteConsensusFile(outPath, merged, source); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log.Info().Int("transcripts", len(merged)).Str("path", outPath).
		Msg("consensus table written")
	return 0
}

// Run wraps RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
