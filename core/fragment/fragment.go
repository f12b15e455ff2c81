// core/fragment/fragment.go

// Package fragment disambiguates coordinate-file entries that share one
// identifier: fragments of a single annotated locus split across records.
package fragment

import (
	"fmt"

	"github.com/rs/zerolog"

	"postoga-core/bed"
	"postoga-core/reconcile"
)

// Resolve suffixes every occurrence inside a fragment group with "#FG<n>"
// (1-based, in file order) and folds the group size back onto the unified
// table as fragment_count, joined by the original identifier. Identifiers
// outside any group keep fragment_count 0.
//
// When no identifier repeats, both inputs are returned untouched and
// changed is false, so callers can skip rewriting large coordinate files.
func Resolve(recs []bed.Record, projections []reconcile.Projection, log zerolog.Logger) (
	[]bed.Record, []reconcile.Projection, bool,
) {
	counts := make(map[string]int, len(recs))
	for _, r := range recs {
		counts[r.ID]++
	}
	groups := 0
	for _, n := range counts {
		if n > 1 {
			groups++
		}
	}
	if groups == 0 {
		return recs, projections, false
	}

	out := make([]bed.Record, len(recs))
	running := make(map[string]int, groups)
	for i, r := range recs {
		out[i] = r
		if counts[r.ID] > 1 {
			running[r.ID]++
			out[i].ID = fmt.Sprintf("%s#FG%d", r.ID, running[r.ID])
		}
	}

	resolved := make([]reconcile.Projection, len(projections))
	for i, p := range projections {
		resolved[i] = p
		if n := counts[p.QueryTranscript]; n > 1 {
			resolved[i].FragmentCount = n
		} else {
			resolved[i].FragmentCount = 0
		}
	}

	log.Info().Int("groups", groups).
		Msg("fragmented projections resolved with #FG suffixes")
	return out, resolved, true
}
