package run

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanks-ir/argos/internal/analysis"
	"github.com/shanks-ir/argos/internal/corpus"
	"github.com/shanks-ir/argos/internal/docstore"
	"github.com/shanks-ir/argos/internal/index"
	"github.com/shanks-ir/argos/internal/query"
	"github.com/shanks-ir/argos/internal/similarity"
	"github.com/shanks-ir/argos/internal/topics"
)

// stubExpander serves canned synonyms.
type stubExpander struct {
	synonyms map[string][]string
}

func (s *stubExpander) Lookup(term string) []string {
	return s.synonyms[term]
}

func newTestIndex(t *testing.T) *index.Index {
	t.Helper()
	ctx := context.Background()

	store, err := docstore.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	b, err := index.NewBuilder(analysis.New(), store, nil)
	require.NoError(t, err)

	docs := []corpus.Document{
		{ID: "arg-vaping-1", Title: "Is vaping safe?", Body: "Vaping avoids combustion so vaping is safer than smoking."},
		{ID: "arg-vaping-2", Title: "Vaping versus smoking", Body: "Smoking kills; vaping is not harmless but less harmful."},
		{ID: "arg-smoking", Title: "Smoking bans", Body: "Public smoking declined after the bans took effect."},
		{ID: "arg-offtopic", Title: "School uniforms", Body: "Uniforms remove choice from school mornings."},
	}
	for _, d := range docs {
		require.NoError(t, b.Add(ctx, d))
	}
	return b.Index()
}

func newTestSearcher(t *testing.T, buf *bytes.Buffer, opts ...SearcherOption) *Searcher {
	t.Helper()

	idx := newTestIndex(t)
	exp := &stubExpander{synonyms: map[string][]string{
		"vaping": {"vaporization"},
		"safe":   {"secure"},
	}}
	s, err := NewSearcher(idx, query.NewComposer(exp), analysis.New(), NewWriter(buf, "test-run"), opts...)
	require.NoError(t, err)
	return s
}

func vapingTopic() topics.Topic {
	return topics.Topic{Number: 1, Title: "Is vaping safe?", Description: "Is vaping safer than smoking?"}
}

func TestNewSearcherNilDependencies(t *testing.T) {
	idx := newTestIndex(t)
	composer := query.NewComposer(nil)
	an := analysis.New()
	w := NewWriter(&bytes.Buffer{}, "r")

	_, err := NewSearcher(nil, composer, an, w)
	assert.ErrorIs(t, err, ErrNilDependency)
	_, err = NewSearcher(idx, nil, an, w)
	assert.ErrorIs(t, err, ErrNilDependency)
	_, err = NewSearcher(idx, composer, nil, w)
	assert.ErrorIs(t, err, ErrNilDependency)
	_, err = NewSearcher(idx, composer, an, nil)
	assert.ErrorIs(t, err, ErrNilDependency)
}

func TestSearchTopicBoundedUniqueDescending(t *testing.T) {
	ctx := context.Background()

	for _, strategy := range []Strategy{StrategyBaseline, StrategyHybridAllPairs,
		StrategyHybridAdjacent, StrategyLMNdcg, StrategyBlendedNdcg, StrategyBlendedRecall} {
		t.Run(string(strategy), func(t *testing.T) {
			var buf bytes.Buffer
			s := newTestSearcher(t, &buf, WithMaxDocs(2))

			ranking, err := s.SearchTopic(ctx, vapingTopic(), strategy)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(ranking), 2)

			seen := map[string]bool{}
			for i, r := range ranking {
				assert.False(t, seen[r.DocID], "doc ids must be unique")
				seen[r.DocID] = true
				if i > 0 {
					assert.LessOrEqual(t, r.Score, ranking[i-1].Score)
				}
			}
		})
	}
}

func TestSearchTopicEmptyTitle(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	s := newTestSearcher(t, &buf)

	// Title tokenizes to nothing: all stop words.
	_, err := s.SearchTopic(ctx, topics.Topic{Number: 2, Title: "is it the"}, StrategyBaseline)
	assert.Error(t, err)
}

func TestHybridRescoreReplacesScores(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	s := newTestSearcher(t, &buf)

	hybrid, err := s.SearchTopic(ctx, vapingTopic(), StrategyHybridAllPairs)
	require.NoError(t, err)
	singlePass, err := s.SearchTopic(ctx, vapingTopic(), StrategyBlendedRecall)
	require.NoError(t, err)

	// Both strategies retrieve the same candidate set; the hybrid one
	// only replaces scores and reorders.
	hybridIDs := map[string]bool{}
	for _, r := range hybrid {
		hybridIDs[r.DocID] = true
	}
	require.Len(t, hybridIDs, len(singlePass))
	for _, r := range singlePass {
		assert.True(t, hybridIDs[r.DocID])
	}

	// The hybrid scores are language-model rescores of the ndcg query,
	// reproducible against the index directly.
	idx := s.idx
	exp := &stubExpander{synonyms: map[string][]string{"vaping": {"vaporization"}, "safe": {"secure"}}}
	ndcgQuery, err := query.NewComposer(exp).Compose(
		analysis.New().Tokens(vapingTopic().Title), query.NdcgMaximizer(query.PairAll))
	require.NoError(t, err)

	idx.SetSimilarity(similarity.NewDirichletLM())
	for _, r := range hybrid {
		var doc uint32
		found := false
		for d := uint32(0); d < uint32(idx.NumDocs()); d++ {
			id, err := idx.FetchStoredID(ctx, d)
			require.NoError(t, err)
			if id == r.DocID {
				doc, found = d, true
				break
			}
		}
		require.True(t, found)

		want, err := idx.Rescore(ctx, ndcgQuery, doc)
		require.NoError(t, err)
		assert.InDelta(t, want, r.Score, 1e-12)
	}
}

func TestSearchTopicDeterministic(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	s := newTestSearcher(t, &buf)

	first, err := s.SearchTopic(ctx, vapingTopic(), StrategyHybridAdjacent)
	require.NoError(t, err)
	second, err := s.SearchTopic(ctx, vapingTopic(), StrategyHybridAdjacent)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunWritesAllTopics(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	s := newTestSearcher(t, &buf, WithMaxDocs(3))

	topicList := []topics.Topic{
		vapingTopic(),
		{Number: 2, Title: "Should smoking be banned?"},
	}
	require.NoError(t, s.Run(ctx, topicList, StrategyBlendedRecall))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 6)
		assert.Equal(t, "Q0", fields[1])
		assert.Equal(t, "test-run", fields[5])
		assert.Regexp(t, `^\d+\.\d{6}$`, fields[4])
	}
	assert.Contains(t, buf.String(), "1\tQ0\t")
	assert.Contains(t, buf.String(), "2\tQ0\t")
}

func TestRunAbortsOnEmptyTitle(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	s := newTestSearcher(t, &buf)

	topicList := []topics.Topic{
		{Number: 1, Title: "the it is"},
		vapingTopic(),
	}
	err := s.Run(ctx, topicList, StrategyBaseline)
	assert.Error(t, err)
	assert.Zero(t, buf.Len(), "no partial output for the failed topic")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	s := newTestSearcher(t, &buf)
	err := s.Run(ctx, []topics.Topic{vapingTopic()}, StrategyBaseline)
	assert.ErrorIs(t, err, context.Canceled)
}
