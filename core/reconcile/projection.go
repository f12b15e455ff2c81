// core/reconcile/projection.go
package reconcile

import "postoga-core/opt"

// PlaceholderGene is assigned to any projection that no source and no
// fallback could attach a query gene to.
const PlaceholderGene = "UNKNOWN"

// Projection is the unified per-projection record: one predicted
// correspondence between a reference transcript and a query-genome locus,
// keyed by QueryTranscript.
type Projection struct {
	ReferenceGene       opt.Val[string]
	ReferenceTranscript opt.Val[string]
	QueryGene           opt.Val[string]
	QueryTranscript     string
	OrthologyClass      opt.Val[string]
	LossStatus          opt.Val[string]
	OrthologyScore      float64
	FragmentCount       int
}

// Columns is the header of the written unified table, in output order.
var Columns = []string{
	"reference_gene",
	"reference_transcript",
	"query_gene",
	"query_transcript",
	"orthology_class",
	"loss_status",
	"orthology_score",
	"fragment_count",
}
