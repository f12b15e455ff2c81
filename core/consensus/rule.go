// core/consensus/rule.go
package consensus

import (
	"fmt"
	"strings"
)

// NotFound is the sentinel class for a transcript a source has no record
// for. It always ranks worst.
const NotFound = "NF"

// Rule is a strict total order over classification tiers: rank 0 is best.
// The wire format is a '>'-delimited tier string, e.g. "I>PI>UL>L>M>PM>PG";
// NotFound is appended at the worst rank when the caller leaves it out.
type Rule struct {
	order []string
	rank  map[string]int
}

// ParseRule parses the delimited tier string once; the merger then works
// off the precomputed ranks.
func ParseRule(s string) (Rule, error) {
	r := Rule{rank: make(map[string]int)}
	for _, tier := range strings.Split(s, ">") {
		tier = strings.TrimSpace(tier)
		if tier == "" {
			continue
		}
		if _, dup := r.rank[tier]; dup {
			return Rule{}, fmt.Errorf("duplicate tier %q in rule %q", tier, s)
		}
		r.rank[tier] = len(r.order)
		r.order = append(r.order, tier)
	}
	if len(r.order) == 0 {
		return Rule{}, fmt.Errorf("empty rule %q", s)
	}
	if _, ok := r.rank[NotFound]; !ok {
		r.rank[NotFound] = len(r.order)
		r.order = append(r.order, NotFound)
	}
	return r, nil
}

// Rank returns the tier's position in the order. Classes outside the rule
// rank as NotFound so the order stays total.
func (r Rule) Rank(class string) int {
	if n, ok := r.rank[class]; ok {
		return n
	}
	return r.rank[NotFound]
}

// Tiers returns the ordered tier list, best first.
func (r Rule) Tiers() []string { return r.order }
