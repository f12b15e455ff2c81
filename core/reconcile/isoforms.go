// core/reconcile/isoforms.go
package reconcile

import "postoga-core/bed"

// IsoformPair maps a query gene to one coordinate-file entry.
type IsoformPair struct {
	QueryGene string
	ID        string
}

// IsoformPairs joins the coordinate annotation onto the unified table by
// helper identifier and emits one (query_gene, coordinate-id) pair per
// matched entry, in coordinate-file order. Entries without a matching
// projection are skipped.
func IsoformPairs(recs []bed.Record, projections []Projection) []IsoformPair {
	genes := make(map[string]string, len(projections))
	for _, p := range projections {
		if g, ok := p.QueryGene.Get(); ok {
			genes[p.QueryTranscript] = g
		}
	}
	var pairs []IsoformPair
	for _, r := range recs {
		if g, ok := genes[r.Helper()]; ok {
			pairs = append(pairs, IsoformPair{QueryGene: g, ID: r.ID})
		}
	}
	return pairs
}
