// core/sources/records.go

// Package sources loads the raw per-table outputs of the orthology predictor
// into typed records. Loaders know their own schema and nothing about the
// other tables; joining is the reconciler's job.
package sources

// OrthologyRecord is one row of the orthology classification table.
type OrthologyRecord struct {
	ReferenceGene       string
	ReferenceTranscript string
	QueryGene           string
	QueryTranscript     string
	OrthologyClass      string
}

// LossRecord is one row of the loss summary table. ReferenceKey is the
// derived secondary join key: the query transcript with its trailing
// chain-index segment dropped.
type LossRecord struct {
	Level           string
	QueryTranscript string
	LossStatus      string
	ReferenceKey    string
}

// ScoreRecord is one row of the orthology scores table. QueryTranscript is
// derived at load time as transcript + "#" + chain.
type ScoreRecord struct {
	Transcript      string
	Chain           string
	QueryTranscript string
	OrthologyScore  float64
}

// Levels of the loss summary table. Only ProjectionLevel rows feed the
// reconciler; the roll-ups are per-transcript and per-gene summaries.
const (
	ProjectionLevel = "PROJECTION"
	TranscriptLevel = "TRANSCRIPT"
	GeneLevel       = "GENE"
)
