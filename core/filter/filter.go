// core/filter/filter.go

// Package filter narrows the unified projection table with deterministic,
// sequentially applied rules and re-derives summary statistics afterwards.
// Unset rules are skipped; an empty result is logged, never fatal.
package filter

import (
	"github.com/rs/zerolog"

	"postoga-core/bed"
	"postoga-core/opt"
	"postoga-core/reconcile"
)

// Options selects which rules run. Zero-value fields disable their rule.
type Options struct {
	MinScore         opt.Val[float64] // keep orthology_score >= threshold
	OrthologyClasses []string         // keep orthology_class in set
	LossStatuses     []string         // keep loss_status in set
	ParalogScore     opt.Val[float64] // drop transcripts with >1 projection above threshold
}

// Any reports whether at least one rule is active.
func (o Options) Any() bool {
	return o.MinScore.IsSet() || len(o.OrthologyClasses) > 0 ||
		len(o.LossStatuses) > 0 || o.ParalogScore.IsSet()
}

// StepStat records one rule's effect on the table.
type StepStat struct {
	Name   string
	Before int
	After  int
}

// Stats summarizes the surviving table. Pure diagnostics: nothing reads
// these counts to alter behavior.
type Stats struct {
	Steps             []StepStat
	Kept              int
	Discarded         int
	UniqueTranscripts int
	UniqueGenes       int
	ByClass           map[string]int
	ByStatus          map[string]int
}

// Pipeline applies the configured rules in a fixed order.
type Pipeline struct {
	opts Options
	log  zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Pipeline {
	return &Pipeline{opts: opts, log: log}
}

// Apply runs score → class → status → paralog-count filtering, then narrows
// the coordinate records and the table to their mutual intersection: the
// final identifier set is exactly (passed all rules) ∩ (present in the
// coordinate file). Re-applying with the same options is a no-op.
func (f *Pipeline) Apply(projections []reconcile.Projection, recs []bed.Record) (
	[]reconcile.Projection, []bed.Record, Stats,
) {
	stats := Stats{}
	initial := len(projections)
	rows := projections

	if min, ok := f.opts.MinScore.Get(); ok {
		rows = f.step(&stats, "orthology_score", rows, func(p reconcile.Projection) bool {
			return p.OrthologyScore >= min
		})
	}
	if len(f.opts.OrthologyClasses) > 0 {
		allow := toSet(f.opts.OrthologyClasses)
		rows = f.step(&stats, "orthology_class", rows, func(p reconcile.Projection) bool {
			c, ok := p.OrthologyClass.Get()
			return ok && allow[c]
		})
	}
	if len(f.opts.LossStatuses) > 0 {
		allow := toSet(f.opts.LossStatuses)
		rows = f.step(&stats, "loss_status", rows, func(p reconcile.Projection) bool {
			s, ok := p.LossStatus.Get()
			return ok && allow[s]
		})
	}
	if threshold, ok := f.opts.ParalogScore.Get(); ok {
		rows = f.paralogStep(&stats, rows, threshold)
	}

	// Mutual narrowing: coordinate entries whose helper survived the rules,
	// then table rows present in the surviving coordinate set. One pass each
	// reaches the fixed point because the second set is a subset of the first.
	kept := make(map[string]bool, len(rows))
	for _, p := range rows {
		kept[p.QueryTranscript] = true
	}
	var outRecs []bed.Record
	inBed := make(map[string]bool, len(recs))
	for _, r := range recs {
		if kept[r.Helper()] {
			outRecs = append(outRecs, r)
			inBed[r.Helper()] = true
		}
	}
	var outRows []reconcile.Projection
	for _, p := range rows {
		if inBed[p.QueryTranscript] {
			outRows = append(outRows, p)
		}
	}

	stats.Kept = len(outRows)
	stats.Discarded = initial - len(outRows)
	stats.ByClass = make(map[string]int)
	stats.ByStatus = make(map[string]int)
	transcripts := make(map[string]bool)
	genes := make(map[string]bool)
	for _, p := range outRows {
		if c, ok := p.OrthologyClass.Get(); ok {
			stats.ByClass[c]++
		}
		if s, ok := p.LossStatus.Get(); ok {
			stats.ByStatus[s]++
		}
		if rt, ok := p.ReferenceTranscript.Get(); ok {
			transcripts[rt] = true
		}
		if rg, ok := p.ReferenceGene.Get(); ok {
			genes[rg] = true
		}
	}
	stats.UniqueTranscripts = len(transcripts)
	stats.UniqueGenes = len(genes)

	f.log.Info().
		Int("kept", stats.Kept).
		Int("discarded", stats.Discarded).
		Int("transcripts", stats.UniqueTranscripts).
		Int("genes", stats.UniqueGenes).
		Msg("projections kept after filters")
	return outRows, outRecs, stats
}

func (f *Pipeline) step(stats *Stats, name string, rows []reconcile.Projection, keep func(reconcile.Projection) bool) []reconcile.Projection {
	before := len(rows)
	var out []reconcile.Projection
	for _, p := range rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	f.record(stats, name, before, len(out))
	return out
}

// paralogStep groups rows by reference transcript and drops every group
// with more than one projection above the threshold: a transcript with
// several highly-scored competitors is unresolved paralogy, and all
// competitors go, not just the losers. Rows without a reference transcript
// cannot be grouped and pass through.
func (f *Pipeline) paralogStep(stats *Stats, rows []reconcile.Projection, threshold float64) []reconcile.Projection {
	before := len(rows)
	high := make(map[string]int)
	for _, p := range rows {
		rt, ok := p.ReferenceTranscript.Get()
		if !ok {
			continue
		}
		if p.OrthologyScore > threshold {
			high[rt]++
		}
	}
	var out []reconcile.Projection
	for _, p := range rows {
		if rt, ok := p.ReferenceTranscript.Get(); ok && high[rt] > 1 {
			continue
		}
		out = append(out, p)
	}
	f.record(stats, "paralog_count", before, len(out))
	return out
}

func (f *Pipeline) record(stats *Stats, name string, before, after int) {
	stats.Steps = append(stats.Steps, StepStat{Name: name, Before: before, After: after})
	if discarded := before - after; discarded > 0 {
		f.log.Debug().Str("rule", name).Int("discarded", discarded).
			Msg("projections discarded")
	}
	if after == 0 && before > 0 {
		f.log.Warn().Str("rule", name).
			Msg("filter discarded every projection; continuing with an empty table")
	}
}

func toSet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
