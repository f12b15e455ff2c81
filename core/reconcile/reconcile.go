// core/reconcile/reconcile.go

// Package reconcile joins the independently-keyed predictor tables into one
// unified projection table. Missing identifiers are resolved through a fixed
// fallback-fill order; once a field is filled, no later step overwrites it.
// The only exception is the explicit query-gene override table, which always
// wins.
package reconcile

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"postoga-core/opt"
	"postoga-core/sources"
)

// RetroMarker is appended to the query gene of projections whose chain
// segment carries the retrogene naming convention.
const RetroMarker = "#RETRO"

func asOpt(s string) opt.Val[string] {
	if s == "" {
		return opt.None[string]()
	}
	return opt.Of(s)
}

// builder accumulates projections keyed by query transcript while
// preserving first-seen input order.
type builder struct {
	order []string
	byKey map[string]*Projection
	log   zerolog.Logger
}

func newBuilder(capacity int, log zerolog.Logger) *builder {
	return &builder{
		order: make([]string, 0, capacity),
		byKey: make(map[string]*Projection, capacity),
		log:   log,
	}
}

func (b *builder) get(queryTranscript string) (*Projection, bool) {
	p, ok := b.byKey[queryTranscript]
	if ok {
		return p, false
	}
	p = &Projection{QueryTranscript: queryTranscript}
	b.byKey[queryTranscript] = p
	b.order = append(b.order, queryTranscript)
	return p, true
}

func (b *builder) rows() []Projection {
	out := make([]Projection, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, *b.byKey[k])
	}
	return out
}

// Reconcile builds the unified projection table from the four source tables.
// Every query transcript present in any input appears exactly once in the
// output, in first-seen order.
func Reconcile(
	orthology []sources.OrthologyRecord,
	loss []sources.LossRecord,
	scores []sources.ScoreRecord,
	overrides map[string]string,
	log zerolog.Logger,
) []Projection {
	b := newBuilder(len(orthology)+len(loss)/2, log)

	// Step 1: seed from the orthology classification.
	dupOrthology := 0
	for _, o := range orthology {
		p, fresh := b.get(o.QueryTranscript)
		if !fresh {
			dupOrthology++
		}
		p.ReferenceGene.Fill(asOpt(o.ReferenceGene))
		p.ReferenceTranscript.Fill(asOpt(o.ReferenceTranscript))
		p.QueryGene.Fill(asOpt(o.QueryGene))
		p.OrthologyClass.Fill(asOpt(o.OrthologyClass))
	}
	if dupOrthology > 0 {
		log.Warn().Int("rows", dupOrthology).
			Msg("duplicate query transcripts in orthology table; first row wins")
	}

	// Step 2: outer-join the projection-level loss rows. Reference
	// transcripts still missing after the join come from the loss-derived
	// secondary key.
	dupLoss := 0
	for _, l := range loss {
		p, fresh := b.get(l.QueryTranscript)
		if !fresh && p.LossStatus.IsSet() {
			dupLoss++
		}
		p.LossStatus.Fill(asOpt(l.LossStatus))
		p.ReferenceTranscript.Fill(asOpt(l.ReferenceKey))
	}
	if dupLoss > 0 {
		log.Warn().Int("rows", dupLoss).
			Msg("duplicate query transcripts in loss summary; first row wins")
	}

	// Step 3: fill null genes through the transcript→gene lookup.
	b.fillGenesFromLookup()

	// Step 4: outer-join scores; the raw transcript field is the last
	// fallback for the reference transcript.
	for _, s := range scores {
		p, _ := b.get(s.QueryTranscript)
		p.OrthologyScore = s.OrthologyScore
		p.ReferenceTranscript.Fill(asOpt(s.Transcript))
	}

	// Step 5: the scores join can introduce previously-unjoined rows, so
	// run the gene fill once more.
	b.fillGenesFromLookup()

	// Step 6: overrides win unconditionally. Override-only projections
	// materialize a row so no input key is silently dropped; they are
	// appended in sorted order for determinism.
	var extra []string
	for qt := range overrides {
		if _, ok := b.byKey[qt]; !ok {
			extra = append(extra, qt)
		}
	}
	sort.Strings(extra)
	for _, qt := range extra {
		b.get(qt)
	}
	if len(extra) > 0 {
		log.Debug().Int("rows", len(extra)).
			Msg("query gene overrides referenced unknown projections; rows created")
	}
	for _, qt := range b.order {
		if gene, ok := overrides[qt]; ok {
			b.byKey[qt].QueryGene.Set(gene)
		}
	}

	// Step 7: keep fragments of one locus distinguishable downstream, and
	// label retrogene projections.
	for _, qt := range b.order {
		p := b.byKey[qt]
		if strings.ContainsRune(qt, '$') {
			if g, ok := p.QueryGene.Get(); ok {
				p.QueryGene.Set(g + "_" + qt)
			}
		}
		if isRetro(qt) {
			if g, ok := p.QueryGene.Get(); ok && !strings.HasSuffix(g, RetroMarker) {
				p.QueryGene.Set(g + RetroMarker)
			}
		}
	}

	// Step 8: anything still without a query gene gets the placeholder.
	placeholders := 0
	for _, qt := range b.order {
		if b.byKey[qt].QueryGene.Fill(opt.Of(PlaceholderGene)) {
			placeholders++
		}
	}
	if placeholders > 0 {
		log.Debug().Int("rows", placeholders).Str("gene", PlaceholderGene).
			Msg("projections without a query gene received the placeholder")
	}

	return b.rows()
}

// fillGenesFromLookup builds the transcript→gene lookup from rows that have
// both reference identifiers, then fills still-null reference and query
// genes by reference transcript. Conflicting lookups keep the first mapping.
func (b *builder) fillGenesFromLookup() {
	lookup := make(map[string]string)
	conflicts := 0
	for _, qt := range b.order {
		p := b.byKey[qt]
		rt, rtOK := p.ReferenceTranscript.Get()
		rg, rgOK := p.ReferenceGene.Get()
		if !rtOK || !rgOK {
			continue
		}
		if prev, seen := lookup[rt]; seen {
			if prev != rg {
				conflicts++
			}
			continue
		}
		lookup[rt] = rg
	}
	if conflicts > 0 {
		b.log.Warn().Int("keys", conflicts).
			Msg("reference transcripts map to multiple genes; first mapping wins")
	}

	filled := 0
	for _, qt := range b.order {
		p := b.byKey[qt]
		rt, ok := p.ReferenceTranscript.Get()
		if !ok {
			continue
		}
		gene, ok := lookup[rt]
		if !ok {
			continue
		}
		if p.ReferenceGene.Fill(opt.Of(gene)) {
			filled++
		}
		if p.QueryGene.Fill(opt.Of(gene)) {
			filled++
		}
	}
	if filled > 0 {
		b.log.Debug().Int("cells", filled).Msg("gene cells filled from transcript lookup")
	}
}

// isRetro reports whether the projection identifier carries the retrogene
// chain convention: a "retro" chain segment after the last '#'.
func isRetro(queryTranscript string) bool {
	i := strings.LastIndexByte(queryTranscript, '#')
	if i < 0 {
		return false
	}
	return strings.EqualFold(queryTranscript[i+1:], "retro")
}
