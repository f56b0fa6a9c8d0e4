package query

import (
	"github.com/shanks-ir/argos/internal/errors"
)

// SynonymExpander looks up single-word synonym candidates for a term.
// A term with no entry yields an empty result, never an error.
type SynonymExpander interface {
	Lookup(term string) []string
}

// FieldParams carries the per-field knobs for BuildFieldQuery.
type FieldParams struct {
	SynonymBoost      float64
	FieldBoost        float64
	ProximityBoost    float64
	ProximityDistance int
	Pairing           PairingPolicy
}

// BuildFieldQuery composes one field's weighted query: the literal terms
// at boost 1 plus, when SynonymBoost is non-zero, each term's synonyms at
// SynonymBoost, the whole group scaled by FieldBoost; OR-ed with the
// proximity group when ProximityBoost is non-zero.
func BuildFieldQuery(terms []string, field Field, expander SynonymExpander, p FieldParams) (Node, error) {
	if len(terms) == 0 {
		return nil, errors.ConfigError("cannot build a field query from an empty term list", nil)
	}

	group := &TermGroup{Field: field, Boost: p.FieldBoost}
	for _, t := range terms {
		group.Terms = append(group.Terms, BoostedTerm{Term: t, Boost: 1})
		if p.SynonymBoost != 0 && expander != nil {
			for _, s := range expander.Lookup(t) {
				group.Terms = append(group.Terms, BoostedTerm{Term: s, Boost: p.SynonymBoost})
			}
		}
	}

	if p.ProximityBoost == 0 {
		return group, nil
	}

	prox, err := BuildProximityGroup(terms, field, p.Pairing, p.ProximityDistance, p.ProximityBoost)
	if err != nil {
		return nil, err
	}

	return &Disjunction{Children: []Node{group, prox}}, nil
}
