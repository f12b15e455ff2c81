// core/filter/filter_test.go
package filter

import (
	"testing"

	"github.com/rs/zerolog"

	"postoga-core/bed"
	"postoga-core/fragment"
	"postoga-core/reconcile"
)

func proj(qt, refTx, class, status string, score float64) reconcile.Projection {
	p := reconcile.Projection{QueryTranscript: qt, OrthologyScore: score}
	if refTx != "" {
		p.ReferenceTranscript.Set(refTx)
	}
	if class != "" {
		p.OrthologyClass.Set(class)
	}
	if status != "" {
		p.LossStatus.Set(status)
	}
	return p
}

func bedFor(qts ...string) []bed.Record {
	recs := make([]bed.Record, len(qts))
	for i, qt := range qts {
		recs[i] = bed.Record{ID: qt}
	}
	return recs
}

func qts(rows []reconcile.Projection) map[string]bool {
	out := map[string]bool{}
	for _, p := range rows {
		out[p.QueryTranscript] = true
	}
	return out
}

func TestScoreThreshold(t *testing.T) {
	rows := []reconcile.Projection{
		proj("A#1", "T1", "one2one", "I", 0.9),
		proj("B#1", "T2", "one2one", "I", 0.3),
	}
	opts := Options{}
	opts.MinScore.Set(0.5)
	got, _, stats := New(opts, zerolog.Nop()).Apply(rows, bedFor("A#1", "B#1"))
	if len(got) != 1 || got[0].QueryTranscript != "A#1" {
		t.Fatalf("got %v", qts(got))
	}
	if stats.Steps[0].Before != 2 || stats.Steps[0].After != 1 {
		t.Errorf("step stat %+v", stats.Steps[0])
	}
}

func TestClassAndStatusAllowSets(t *testing.T) {
	rows := []reconcile.Projection{
		proj("A#1", "T1", "one2one", "I", 1),
		proj("B#1", "T2", "one2many", "I", 1),
		proj("C#1", "T3", "one2one", "L", 1),
	}
	opts := Options{OrthologyClasses: []string{"one2one"}, LossStatuses: []string{"I"}}
	got, _, _ := New(opts, zerolog.Nop()).Apply(rows, bedFor("A#1", "B#1", "C#1"))
	keys := qts(got)
	if len(keys) != 1 || !keys["A#1"] {
		t.Fatalf("got %v, want only A#1", keys)
	}
}

func TestParalogRuleDropsWholeGroup(t *testing.T) {
	rows := []reconcile.Projection{
		proj("A#1", "T1", "", "", 0.95), // two competitors above threshold:
		proj("A#2", "T1", "", "", 0.91), // the whole T1 group goes
		proj("B#1", "T2", "", "", 0.95),
		proj("B#2", "T2", "", "", 0.10), // one competitor: group survives
	}
	opts := Options{}
	opts.ParalogScore.Set(0.5)
	got, _, _ := New(opts, zerolog.Nop()).Apply(rows, bedFor("A#1", "A#2", "B#1", "B#2"))
	keys := qts(got)
	if keys["A#1"] || keys["A#2"] {
		t.Errorf("ambiguous paralog group not fully dropped: %v", keys)
	}
	if !keys["B#1"] || !keys["B#2"] {
		t.Errorf("unambiguous group should survive: %v", keys)
	}
}

func TestParalogRuleIgnoresRowsWithoutReference(t *testing.T) {
	rows := []reconcile.Projection{
		proj("A#1", "", "", "", 0.99),
		proj("B#1", "", "", "", 0.99),
	}
	opts := Options{}
	opts.ParalogScore.Set(0.5)
	got, _, _ := New(opts, zerolog.Nop()).Apply(rows, bedFor("A#1", "B#1"))
	if len(got) != 2 {
		t.Fatalf("ungrouped rows must pass through, got %d", len(got))
	}
}

func TestBedTableIntersection(t *testing.T) {
	rows := []reconcile.Projection{
		proj("A#1", "T1", "one2one", "I", 1),
		proj("B#1", "T2", "one2one", "I", 1), // passes rules, absent from bed
	}
	recs := []bed.Record{
		{ID: "A#1$1"}, // helper A#1
		{ID: "C#1"},   // present in bed, absent from table
	}
	opts := Options{OrthologyClasses: []string{"one2one"}}
	gotRows, gotRecs, _ := New(opts, zerolog.Nop()).Apply(rows, recs)
	if len(gotRows) != 1 || gotRows[0].QueryTranscript != "A#1" {
		t.Fatalf("table rows %v", qts(gotRows))
	}
	if len(gotRecs) != 1 || gotRecs[0].ID != "A#1$1" {
		t.Fatalf("bed records %v", gotRecs)
	}
}

func TestFragmentedRecordsSurviveFilters(t *testing.T) {
	rows := []reconcile.Projection{
		proj("G1", "T1", "one2one", "I", 0.9),
		proj("G2", "T2", "one2one", "I", 0.8),
	}
	recs, rows, changed := fragment.Resolve(bedFor("G1", "G1", "G2"), rows, zerolog.Nop())
	if !changed {
		t.Fatal("fragment group not resolved")
	}

	opts := Options{}
	opts.MinScore.Set(0.5)
	gotRows, gotRecs, _ := New(opts, zerolog.Nop()).Apply(rows, recs)

	// Every projection passes the score rule, so the suffixed coordinate
	// entries must all survive the mutual narrowing.
	if len(gotRecs) != 3 {
		t.Fatalf("bed records after filter = %v, want all 3", gotRecs)
	}
	keys := qts(gotRows)
	if !keys["G1"] || !keys["G2"] {
		t.Fatalf("fragmented projection dropped despite passing every rule: %v", keys)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	rows := []reconcile.Projection{
		proj("A#1", "T1", "one2one", "I", 0.8),
		proj("B#1", "T2", "one2many", "L", 0.2),
	}
	recs := bedFor("A#1", "B#1")
	opts := Options{LossStatuses: []string{"I"}}
	opts.MinScore.Set(0.5)
	p := New(opts, zerolog.Nop())

	once, onceRecs, _ := p.Apply(rows, recs)
	twice, twiceRecs, _ := p.Apply(once, onceRecs)
	if len(once) != len(twice) || len(onceRecs) != len(twiceRecs) {
		t.Fatalf("re-application changed the result: %d/%d vs %d/%d",
			len(once), len(onceRecs), len(twice), len(twiceRecs))
	}
}

func TestEmptyResultIsNotFatal(t *testing.T) {
	rows := []reconcile.Projection{proj("A#1", "T1", "one2one", "I", 0.1)}
	opts := Options{}
	opts.MinScore.Set(0.5)
	got, gotRecs, stats := New(opts, zerolog.Nop()).Apply(rows, bedFor("A#1"))
	if len(got) != 0 || len(gotRecs) != 0 {
		t.Fatalf("expected empty output")
	}
	if stats.Kept != 0 || stats.Discarded != 1 {
		t.Errorf("stats %+v", stats)
	}
}

func TestStatsCounts(t *testing.T) {
	rows := []reconcile.Projection{
		proj("A#1", "T1", "one2one", "I", 1),
		proj("B#1", "T1", "one2one", "L", 1),
	}
	got, _, stats := New(Options{OrthologyClasses: []string{"one2one"}}, zerolog.Nop()).
		Apply(rows, bedFor("A#1", "B#1"))
	if len(got) != 2 {
		t.Fatal("both rows should survive")
	}
	if stats.ByClass["one2one"] != 2 || stats.ByStatus["I"] != 1 || stats.ByStatus["L"] != 1 {
		t.Errorf("stats %+v", stats)
	}
	if stats.UniqueTranscripts != 1 {
		t.Errorf("unique transcripts = %d, want 1", stats.UniqueTranscripts)
	}
}
