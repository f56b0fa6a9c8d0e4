package query

// PairingPolicy selects how proximity pairs are generated from the
// ordered term sequence.
type PairingPolicy int

const (
	// PairAll emits one clause for every unordered pair of distinct terms.
	PairAll PairingPolicy = iota
	// PairAdjacent emits one clause per consecutive pair of distinct terms.
	PairAdjacent
)

func (p PairingPolicy) String() string {
	if p == PairAdjacent {
		return "adjacent"
	}
	return "all"
}

// StrategyProfile is an immutable bundle of tuned boost constants.
// The values are design parameters, tuned separately per profile against
// the task's relevance judgments; they are not derived from each other.
type StrategyProfile struct {
	Name string

	// TitleBoost scales the title-field rendering of the query.
	// The body-field rendering always gets boost 1.
	TitleBoost float64

	// SynonymBoost is the per-synonym boost. 0 disables expansion.
	SynonymBoost float64

	// ProximityBoost scales the proximity group. 0 disables it.
	ProximityBoost float64

	// ProximityDistance is the maximum token distance for a pair match.
	ProximityDistance int

	// Pairing selects the proximity pair generation policy.
	Pairing PairingPolicy
}

// Baseline is plain term matching: no synonyms, no proximity.
func Baseline() StrategyProfile {
	return StrategyProfile{
		Name:       "baseline",
		TitleBoost: 1.0,
	}
}

// RecallMaximizer is tuned to pull as many relevant documents as
// possible into the candidate set.
func RecallMaximizer(pairing PairingPolicy) StrategyProfile {
	return StrategyProfile{
		Name:              "recall-maximizer",
		TitleBoost:        0.3,
		SynonymBoost:      0.20,
		ProximityBoost:    0.75,
		ProximityDistance: 12,
		Pairing:           pairing,
	}
}

// NdcgMaximizer is tuned for ranking quality at the top of the list.
func NdcgMaximizer(pairing PairingPolicy) StrategyProfile {
	return StrategyProfile{
		Name:              "ndcg-maximizer",
		TitleBoost:        0.15,
		SynonymBoost:      0.05,
		ProximityBoost:    0.75,
		ProximityDistance: 17,
		Pairing:           pairing,
	}
}
