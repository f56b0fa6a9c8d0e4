package run

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shanks-ir/argos/internal/analysis"
	"github.com/shanks-ir/argos/internal/errors"
	"github.com/shanks-ir/argos/internal/index"
	"github.com/shanks-ir/argos/internal/query"
	"github.com/shanks-ir/argos/internal/similarity"
	"github.com/shanks-ir/argos/internal/topics"
)

// ErrNilDependency is returned when a required dependency is nil.
var ErrNilDependency = stderrors.New("nil dependency")

// defaultMaxDocs bounds each topic's ranking, per the task guidelines.
const defaultMaxDocs = 1000

// Searcher drives the strategy pipeline for a batch of topics:
// compose, retrieve, optionally rescore, truncate, emit.
type Searcher struct {
	idx      *index.Index
	composer *query.Composer
	analyzer *analysis.Analyzer
	writer   *Writer
	logger   *slog.Logger

	maxDocs        int
	expectedTopics int
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithMaxDocs sets the maximum ranking length per topic.
func WithMaxDocs(k int) SearcherOption {
	return func(s *Searcher) { s.maxDocs = k }
}

// WithExpectedTopics sets the expected topic count; a mismatch logs a
// warning but does not abort.
func WithExpectedTopics(n int) SearcherOption {
	return func(s *Searcher) { s.expectedTopics = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SearcherOption {
	return func(s *Searcher) { s.logger = l }
}

// NewSearcher creates the orchestrator. All dependencies are required.
func NewSearcher(idx *index.Index, composer *query.Composer, analyzer *analysis.Analyzer, writer *Writer, opts ...SearcherOption) (*Searcher, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: index", ErrNilDependency)
	}
	if composer == nil {
		return nil, fmt.Errorf("%w: composer", ErrNilDependency)
	}
	if analyzer == nil {
		return nil, fmt.Errorf("%w: analyzer", ErrNilDependency)
	}
	if writer == nil {
		return nil, fmt.Errorf("%w: writer", ErrNilDependency)
	}

	s := &Searcher{
		idx:      idx,
		composer: composer,
		analyzer: analyzer,
		writer:   writer,
		logger:   slog.Default(),
		maxDocs:  defaultMaxDocs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxDocs <= 0 {
		return nil, errors.ConfigError("maximum documents retrieved must be positive", nil)
	}
	return s, nil
}

// Run searches every topic sequentially under one strategy and writes
// the rankings. The first error aborts the run; completed topics stay
// written.
func (s *Searcher) Run(ctx context.Context, topicList []topics.Topic, strategy Strategy) error {
	if s.expectedTopics > 0 && len(topicList) != s.expectedTopics {
		s.logger.Warn("unexpected topic count",
			slog.Int("expected", s.expectedTopics),
			slog.Int("found", len(topicList)))
	}

	start := time.Now()
	for _, t := range topicList {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Info("searching topic", slog.String("topic", t.ID()))
		ranking, err := s.SearchTopic(ctx, t, strategy)
		if err != nil {
			return fmt.Errorf("topic %s: %w", t.ID(), err)
		}
		if err := s.writer.WriteRanking(t.ID(), ranking); err != nil {
			return err
		}
	}

	s.logger.Info("search complete",
		slog.Int("topics", len(topicList)),
		slog.String("strategy", string(strategy)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// SearchTopic runs one topic through the strategy pipeline and returns
// its final ranking, bounded by the configured maximum.
func (s *Searcher) SearchTopic(ctx context.Context, t topics.Topic, strategy Strategy) ([]ScoredID, error) {
	titleTerms := s.analyzer.Tokens(t.Title)
	if len(titleTerms) == 0 {
		return nil, errors.CompositionError(
			fmt.Sprintf("topic %s has an empty title after tokenization", t.ID()), nil)
	}

	pairing := query.PairAll
	if strategy == StrategyHybridAdjacent {
		pairing = query.PairAdjacent
	}

	primaryQuery, primarySim, err := s.primaryPhase(titleTerms, strategy, pairing)
	if err != nil {
		return nil, err
	}

	s.idx.SetSimilarity(primarySim)
	hits, err := s.idx.Search(ctx, primaryQuery, s.maxDocs)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("primary retrieval",
		slog.String("topic", t.ID()),
		slog.Int("candidates", len(hits)),
		slog.String("similarity", primarySim.Name()))

	if strategy.rescores() {
		hits, err = s.rescorePhase(ctx, titleTerms, pairing, hits)
		if err != nil {
			return nil, err
		}
	}

	if len(hits) > s.maxDocs {
		hits = hits[:s.maxDocs]
	}

	ranking := make([]ScoredID, 0, len(hits))
	for _, h := range hits {
		id, err := s.idx.FetchStoredID(ctx, h.Doc)
		if err != nil {
			return nil, err
		}
		ranking = append(ranking, ScoredID{DocID: id, Score: h.Score})
	}
	return ranking, nil
}

// primaryPhase selects the first-pass query and similarity.
func (s *Searcher) primaryPhase(titleTerms []string, strategy Strategy, pairing query.PairingPolicy) (query.Node, similarity.Similarity, error) {
	var profile query.StrategyProfile
	var sim similarity.Similarity

	switch strategy {
	case StrategyBaseline:
		profile = query.Baseline()
		sim = similarity.NewBM25()
	case StrategyLMNdcg:
		profile = query.NdcgMaximizer(pairing)
		sim = similarity.NewDirichletLM()
	case StrategyBlendedNdcg:
		profile = query.NdcgMaximizer(pairing)
		sim = similarity.NewBlended(similarity.NewBM25(), similarity.NewDirichletLM())
	default:
		// Strategies 1, 2 and 5 retrieve with the recall query under
		// the blended similarity.
		profile = query.RecallMaximizer(pairing)
		sim = similarity.NewBlended(similarity.NewBM25(), similarity.NewDirichletLM())
	}

	q, err := s.composer.Compose(titleTerms, profile)
	if err != nil {
		return nil, nil, err
	}
	return q, sim, nil
}

// rescorePhase re-evaluates every candidate against the ndcg query under
// the pure language model. The new score fully replaces the primary one;
// no blending between phases. Ties keep the primary order, then ascend
// by document number, so reruns are reproducible.
func (s *Searcher) rescorePhase(ctx context.Context, titleTerms []string, pairing query.PairingPolicy, hits []index.ScoredDocument) ([]index.ScoredDocument, error) {
	ndcgQuery, err := s.composer.Compose(titleTerms, query.NdcgMaximizer(pairing))
	if err != nil {
		return nil, err
	}

	s.idx.SetSimilarity(similarity.NewDirichletLM())

	type rescored struct {
		hit         index.ScoredDocument
		primaryRank int
	}
	ranking := make([]rescored, len(hits))
	for i, h := range hits {
		score, err := s.idx.Rescore(ctx, ndcgQuery, h.Doc)
		if err != nil {
			return nil, err
		}
		ranking[i] = rescored{
			hit:         index.ScoredDocument{Doc: h.Doc, Score: score},
			primaryRank: i,
		}
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].hit.Score != ranking[j].hit.Score {
			return ranking[i].hit.Score > ranking[j].hit.Score
		}
		if ranking[i].primaryRank != ranking[j].primaryRank {
			return ranking[i].primaryRank < ranking[j].primaryRank
		}
		return ranking[i].hit.Doc < ranking[j].hit.Doc
	})

	out := make([]index.ScoredDocument, len(ranking))
	for i, r := range ranking {
		out[i] = r.hit
	}
	return out, nil
}
