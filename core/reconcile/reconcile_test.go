// core/reconcile/reconcile_test.go
package reconcile

import (
	"testing"

	"github.com/rs/zerolog"

	"postoga-core/bed"
	"postoga-core/sources"
)

func find(t *testing.T, rows []Projection, qt string) Projection {
	t.Helper()
	for _, p := range rows {
		if p.QueryTranscript == qt {
			return p
		}
	}
	t.Fatalf("projection %q not found", qt)
	return Projection{}
}

func TestReconcileCompleteness(t *testing.T) {
	orthology := []sources.OrthologyRecord{
		{ReferenceGene: "G1", ReferenceTranscript: "T1.1", QueryGene: "qG1", QueryTranscript: "T1.1#10", OrthologyClass: "one2one"},
	}
	loss := []sources.LossRecord{
		{Level: "PROJECTION", QueryTranscript: "T2.1#20", LossStatus: "L", ReferenceKey: "T2.1"},
	}
	scores := []sources.ScoreRecord{
		{Transcript: "T3.1", Chain: "30", QueryTranscript: "T3.1#30", OrthologyScore: 0.5},
	}
	overrides := map[string]string{"T4.1#40": "qG4"}

	rows := Reconcile(orthology, loss, scores, overrides, zerolog.Nop())
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4 (one per distinct input key)", len(rows))
	}
	seen := map[string]int{}
	for _, p := range rows {
		seen[p.QueryTranscript]++
	}
	for qt, n := range seen {
		if n != 1 {
			t.Errorf("%s appears %d times", qt, n)
		}
	}
}

func TestReconcileLossFillsReferenceTranscript(t *testing.T) {
	loss := []sources.LossRecord{
		{Level: "PROJECTION", QueryTranscript: "T2.1#20", LossStatus: "UL", ReferenceKey: "T2.1"},
	}
	rows := Reconcile(nil, loss, nil, nil, zerolog.Nop())
	p := find(t, rows, "T2.1#20")
	if rt, _ := p.ReferenceTranscript.Get(); rt != "T2.1" {
		t.Errorf("reference transcript = %q, want T2.1", rt)
	}
	if st, _ := p.LossStatus.Get(); st != "UL" {
		t.Errorf("loss status = %q, want UL", st)
	}
}

func TestReconcileGeneLookupFill(t *testing.T) {
	// T1.1 establishes the T1.1→G1 mapping; the loss-only row joins to the
	// same reference transcript and inherits the gene on both columns.
	orthology := []sources.OrthologyRecord{
		{ReferenceGene: "G1", ReferenceTranscript: "T1.1", QueryGene: "qG1", QueryTranscript: "T1.1#10", OrthologyClass: "one2one"},
	}
	loss := []sources.LossRecord{
		{Level: "PROJECTION", QueryTranscript: "T1.1#99", LossStatus: "M", ReferenceKey: "T1.1"},
	}
	rows := Reconcile(orthology, loss, nil, nil, zerolog.Nop())
	p := find(t, rows, "T1.1#99")
	if g, _ := p.ReferenceGene.Get(); g != "G1" {
		t.Errorf("reference gene = %q, want G1", g)
	}
	if g, _ := p.QueryGene.Get(); g != "G1" {
		t.Errorf("query gene = %q, want G1", g)
	}
}

func TestReconcileFallbackMonotonicity(t *testing.T) {
	// The orthology row sets reference_transcript; the score join must not
	// overwrite it with the raw transcript field.
	orthology := []sources.OrthologyRecord{
		{ReferenceGene: "G1", ReferenceTranscript: "T1.1", QueryGene: "qG1", QueryTranscript: "T1.1#10", OrthologyClass: "one2one"},
	}
	scores := []sources.ScoreRecord{
		{Transcript: "OTHER", Chain: "10", QueryTranscript: "T1.1#10", OrthologyScore: 0.9},
	}
	rows := Reconcile(orthology, nil, scores, nil, zerolog.Nop())
	p := find(t, rows, "T1.1#10")
	if rt, _ := p.ReferenceTranscript.Get(); rt != "T1.1" {
		t.Errorf("later step overwrote reference transcript: %q", rt)
	}
	if p.OrthologyScore != 0.9 {
		t.Errorf("score = %v, want 0.9", p.OrthologyScore)
	}
}

func TestReconcileScoreOnlyRowFallsBackToRawTranscript(t *testing.T) {
	scores := []sources.ScoreRecord{
		{Transcript: "T3.1", Chain: "30", QueryTranscript: "T3.1#30", OrthologyScore: 0.4},
	}
	rows := Reconcile(nil, nil, scores, nil, zerolog.Nop())
	p := find(t, rows, "T3.1#30")
	if rt, _ := p.ReferenceTranscript.Get(); rt != "T3.1" {
		t.Errorf("reference transcript = %q, want T3.1", rt)
	}
}

func TestReconcileOverrideWins(t *testing.T) {
	orthology := []sources.OrthologyRecord{
		{ReferenceGene: "G1", ReferenceTranscript: "T1.1", QueryGene: "inferred", QueryTranscript: "T1.1#10", OrthologyClass: "one2one"},
	}
	rows := Reconcile(orthology, nil, nil, map[string]string{"T1.1#10": "forced"}, zerolog.Nop())
	p := find(t, rows, "T1.1#10")
	if g, _ := p.QueryGene.Get(); g != "forced" {
		t.Errorf("override did not win: %q", g)
	}
}

func TestReconcileFragmentMarkerSuffixesQueryGene(t *testing.T) {
	orthology := []sources.OrthologyRecord{
		{ReferenceGene: "G1", ReferenceTranscript: "T1.1", QueryGene: "qG1", QueryTranscript: "T1.1#10$2", OrthologyClass: "one2one"},
	}
	rows := Reconcile(orthology, nil, nil, nil, zerolog.Nop())
	p := find(t, rows, "T1.1#10$2")
	if g, _ := p.QueryGene.Get(); g != "qG1_T1.1#10$2" {
		t.Errorf("query gene = %q", g)
	}
}

func TestReconcileRetroChainLabelsQueryGene(t *testing.T) {
	orthology := []sources.OrthologyRecord{
		{ReferenceGene: "G1", ReferenceTranscript: "T1.1", QueryGene: "qG1", QueryTranscript: "T1.1#retro", OrthologyClass: "one2one"},
	}
	rows := Reconcile(orthology, nil, nil, nil, zerolog.Nop())
	p := find(t, rows, "T1.1#retro")
	if g, _ := p.QueryGene.Get(); g != "qG1"+RetroMarker {
		t.Errorf("query gene = %q", g)
	}
}

func TestReconcilePlaceholderGene(t *testing.T) {
	loss := []sources.LossRecord{
		{Level: "PROJECTION", QueryTranscript: "ORPHAN#1", LossStatus: "M", ReferenceKey: "ORPHAN"},
	}
	rows := Reconcile(nil, loss, nil, nil, zerolog.Nop())
	p := find(t, rows, "ORPHAN#1")
	if g, _ := p.QueryGene.Get(); g != PlaceholderGene {
		t.Errorf("query gene = %q, want placeholder", g)
	}
}

func TestIsoformPairs(t *testing.T) {
	projections := []Projection{
		{QueryTranscript: "T1.1#10"},
	}
	projections[0].QueryGene.Set("qG1")
	recs := []bed.Record{
		{ID: "T1.1#10$1"},
		{ID: "T1.1#10"},
		{ID: "UNMATCHED#2"},
	}
	pairs := IsoformPairs(recs, projections)
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].QueryGene != "qG1" || pairs[0].ID != "T1.1#10$1" {
		t.Errorf("bad pair: %+v", pairs[0])
	}
}

func TestIsoformPairsMatchFragmentSuffixedRecords(t *testing.T) {
	projections := []Projection{
		{QueryTranscript: "T1.1#10", FragmentCount: 2},
	}
	projections[0].QueryGene.Set("qG1")
	// Coordinate entries as rewritten by fragment resolution.
	recs := []bed.Record{
		{ID: "T1.1#10#FG1"},
		{ID: "T1.1#10#FG2"},
	}
	pairs := IsoformPairs(recs, projections)
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	for i, p := range pairs {
		if p.QueryGene != "qG1" {
			t.Errorf("pair %d gene = %q", i, p.QueryGene)
		}
	}
	// The map keeps the suffixed ids: they name the rewritten records.
	if pairs[0].ID != "T1.1#10#FG1" || pairs[1].ID != "T1.1#10#FG2" {
		t.Errorf("pair ids = %+v", pairs)
	}
}
