// core/consensus/consensus.go

// Package consensus elects one classification per transcript across two or
// more independently-produced tables: haplotype assemblies of the same
// organism, each with its own prediction for the same locus.
package consensus

import (
	"errors"

	"github.com/rs/zerolog"

	"postoga-core/opt"
)

// Source selects the input schema the tables were produced from.
type Source int

const (
	// SourceQuery merges unified projection tables.
	SourceQuery Source = iota
	// SourceLoss merges raw loss-status tables.
	SourceLoss
)

// ErrTooFewTables is returned when fewer than two input tables are given.
var ErrTooFewTables = errors.New("consensus requires at least two input tables")

// Row is one transcript entry contributed by a single source table.
// Class is mandatory; the remaining attributes depend on the source mode
// and back-fill left-to-right across sources in the merged output.
type Row struct {
	Transcript string // shared join key
	Class      string
	Gene       opt.Val[string] // reference gene (query mode)
	Helper     opt.Val[string] // reference transcript (query mode)
	Relation   opt.Val[string] // orthology class (query mode)
	Level      opt.Val[string] // roll-up level (loss mode)
}

// Table is one source's rows, in input order.
type Table []Row

// Consensus is the merged per-transcript record: one class value per
// source (NotFound where a source had no row) and the elected class.
type Consensus struct {
	Transcript string
	Classes    []string
	Class      string
	Gene       opt.Val[string]
	Helper     opt.Val[string]
	Relation   opt.Val[string]
	Level      opt.Val[string]
}

// Merge full-outer-joins the tables on transcript identity and elects, for
// each transcript, the class with the minimum rank. Class values outside
// the rule rank as NotFound (logged). Output order is first-seen across
// tables in input order.
func Merge(tables []Table, rule Rule, log zerolog.Logger) ([]Consensus, error) {
	if len(tables) < 2 {
		return nil, ErrTooFewTables
	}

	var order []string
	index := make(map[string]int)
	for _, t := range tables {
		for _, row := range t {
			if _, ok := index[row.Transcript]; !ok {
				index[row.Transcript] = len(order)
				order = append(order, row.Transcript)
			}
		}
	}

	merged := make([]Consensus, len(order))
	for i, tx := range order {
		merged[i] = Consensus{
			Transcript: tx,
			Classes:    make([]string, len(tables)),
		}
		for j := range merged[i].Classes {
			merged[i].Classes[j] = NotFound
		}
	}

	unknown := 0
	for j, t := range tables {
		seen := make(map[string]bool, len(t))
		for _, row := range t {
			c := &merged[index[row.Transcript]]
			if seen[row.Transcript] {
				continue // first row per source wins
			}
			seen[row.Transcript] = true
			c.Classes[j] = row.Class
			if _, ok := rule.rank[row.Class]; !ok {
				unknown++
			}
			// Non-class attributes back-fill left-to-right: the first
			// source with a value wins.
			c.Gene.Fill(row.Gene)
			c.Helper.Fill(row.Helper)
			c.Relation.Fill(row.Relation)
			c.Level.Fill(row.Level)
		}
	}
	if unknown > 0 {
		log.Warn().Int("rows", unknown).
			Msg("class values outside the rule ranked as NF")
	}

	for i := range merged {
		best := merged[i].Classes[0]
		for _, c := range merged[i].Classes[1:] {
			if rule.Rank(c) < rule.Rank(best) {
				best = c
			}
		}
		// Keep the elected class inside the tier set even when a source
		// contributed a value outside the rule.
		if _, ok := rule.rank[best]; !ok {
			best = NotFound
		}
		merged[i].Class = best
	}

	log.Info().Int("transcripts", len(merged)).Int("sources", len(tables)).
		Msg("haplotype consensus merged")
	return merged, nil
}
