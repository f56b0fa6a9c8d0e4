package query

import (
	"github.com/shanks-ir/argos/internal/errors"
)

// BuildProximityGroup builds the pairwise proximity group for terms
// against field under the given pairing policy. The single boost applies
// to the group, not per clause.
//
// Callers must not invoke this with boost 0; a zero boost means the
// group is omitted from the query altogether.
func BuildProximityGroup(terms []string, field Field, policy PairingPolicy, distance int, boost float64) (*ProximityGroup, error) {
	if boost == 0 {
		return nil, errors.CompositionError("proximity group requested with zero boost", nil)
	}
	if boost < 0 {
		return nil, errors.CompositionError("proximity boost must be non-negative", nil)
	}
	if len(terms) == 0 {
		return nil, errors.ConfigError("proximity group requires at least one term", nil)
	}

	var pairs []Pair
	switch policy {
	case PairAdjacent:
		for i := 0; i < len(terms)-1; i++ {
			if terms[i] == terms[i+1] {
				continue
			}
			pairs = append(pairs, Pair{A: terms[i], B: terms[i+1], Distance: distance})
		}
	default:
		for i := 0; i < len(terms)-1; i++ {
			for j := i + 1; j < len(terms); j++ {
				if terms[i] == terms[j] {
					continue
				}
				pairs = append(pairs, Pair{A: terms[i], B: terms[j], Distance: distance})
			}
		}
	}

	return &ProximityGroup{Field: field, Pairs: pairs, Boost: boost}, nil
}
