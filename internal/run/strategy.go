package run

import (
	"fmt"

	"github.com/shanks-ir/argos/internal/errors"
)

// Strategy names one of the retrieval pipelines.
type Strategy string

const (
	// StrategyBaseline is plain BM25 over the baseline query profile.
	StrategyBaseline Strategy = "baseline"
	// StrategyHybridAllPairs retrieves with the blended similarity and
	// the recall query (all-pairs proximity), then rescores every
	// candidate with the language model and the ndcg query.
	StrategyHybridAllPairs Strategy = "1"
	// StrategyHybridAdjacent is the same two-phase pipeline with
	// adjacent-pairs proximity in both queries.
	StrategyHybridAdjacent Strategy = "2"
	// StrategyLMNdcg is a single pass: language model, ndcg query.
	StrategyLMNdcg Strategy = "3"
	// StrategyBlendedNdcg is a single pass: blended similarity, ndcg query.
	StrategyBlendedNdcg Strategy = "4"
	// StrategyBlendedRecall is a single pass: blended similarity, recall query.
	StrategyBlendedRecall Strategy = "5"
)

// ParseStrategy validates a strategy name from configuration.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyBaseline, StrategyHybridAllPairs, StrategyHybridAdjacent,
		StrategyLMNdcg, StrategyBlendedNdcg, StrategyBlendedRecall:
		return Strategy(s), nil
	default:
		return "", errors.New(errors.ErrCodeUnknownStrategy,
			fmt.Sprintf("unknown strategy %q (want baseline or 1-5)", s), nil)
	}
}

// rescores reports whether the strategy runs the second, rescoring phase.
func (s Strategy) rescores() bool {
	return s == StrategyHybridAllPairs || s == StrategyHybridAdjacent
}
