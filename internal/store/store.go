// internal/store/store.go

// Package store snapshots the final unified table into a SQLite database so
// downstream analysis can query projections with plain SQL.
package store

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"postoga-core/filter"
	"postoga-core/reconcile"
)

const schema = `
CREATE TABLE IF NOT EXISTS projections (
	reference_gene       TEXT,
	reference_transcript TEXT,
	query_gene           TEXT,
	query_transcript     TEXT PRIMARY KEY,
	orthology_class      TEXT,
	loss_status          TEXT,
	orthology_score      REAL NOT NULL,
	fragment_count       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS filter_steps (
	step   TEXT PRIMARY KEY,
	before INTEGER NOT NULL,
	after  INTEGER NOT NULL
);
`

// nullable maps an unset optional to SQL NULL instead of an empty string.
func nullable(v interface{ Get() (string, bool) }) any {
	if s, ok := v.Get(); ok {
		return s
	}
	return nil
}

// Write creates (or replaces) the database at path and inserts every
// projection plus the per-step filter counts in one transaction.
func Write(path string, projections []reconcile.Projection, stats filter.Stats) (retErr error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`DELETE FROM projections`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM filter_steps`); err != nil {
		return err
	}

	ins, err := tx.Prepare(`INSERT INTO projections (
		reference_gene, reference_transcript, query_gene, query_transcript,
		orthology_class, loss_status, orthology_score, fragment_count
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = ins.Close() }()

	for _, p := range projections {
		if _, err := ins.Exec(
			nullable(p.ReferenceGene),
			nullable(p.ReferenceTranscript),
			nullable(p.QueryGene),
			p.QueryTranscript,
			nullable(p.OrthologyClass),
			nullable(p.LossStatus),
			p.OrthologyScore,
			p.FragmentCount,
		); err != nil {
			return fmt.Errorf("insert projection %q: %w", p.QueryTranscript, err)
		}
	}

	for i, s := range stats.Steps {
		// Step names can repeat across re-runs of the same rule; prefix
		// with the position so the primary key stays unique.
		key := strconv.Itoa(i+1) + ":" + s.Name
		if _, err := tx.Exec(
			`INSERT INTO filter_steps (step, before, after) VALUES (?, ?, ?)`,
			key, s.Before, s.After,
		); err != nil {
			return fmt.Errorf("insert filter step %q: %w", s.Name, err)
		}
	}

	return tx.Commit()
}
