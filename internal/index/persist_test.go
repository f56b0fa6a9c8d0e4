package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanks-ir/argos/internal/analysis"
	"github.com/shanks-ir/argos/internal/docstore"
	"github.com/shanks-ir/argos/internal/query"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	idx, _ := buildTestIndex(t)
	dir := t.TempDir()

	require.NoError(t, idx.Save(dir))

	store, err := docstore.Open("")
	require.NoError(t, err)
	defer store.Close()

	loaded, err := Load(dir, store)
	require.NoError(t, err)

	assert.Equal(t, idx.NumDocs(), loaded.NumDocs())
	assert.Equal(t, idx.TermCount(query.FieldBody), loaded.TermCount(query.FieldBody))

	q := termQuery(query.FieldBody, 1, "smoking", "cigarettes")
	before, err := idx.Search(ctx, q, 10)
	require.NoError(t, err)
	after, err := loaded.Search(ctx, q, 10)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadMissingIndex(t *testing.T) {
	_, err := Load(t.TempDir(), nil)
	assert.Error(t, err)
}

const buildCorpus = `{
  "arguments": [
    {
      "id": "arg-1",
      "conclusion": "Vaping is safer than smoking",
      "premises": [{"text": "Combustion is the main harm.", "stance": "PRO"}],
      "context": {"discussionTitle": "Is vaping safe?"}
    },
    {
      "id": "arg-2",
      "conclusion": "Smoking bans work",
      "premises": [{"text": "Public smoking declined after bans.", "stance": "PRO"}],
      "context": {"discussionTitle": "Should smoking be banned?"}
    },
    {
      "id": "arg-1",
      "conclusion": "Duplicate record",
      "premises": [{"text": "Should be skipped.", "stance": "CON"}],
      "context": {"discussionTitle": "dup"}
    }
  ]
}`

func TestBuildEndToEnd(t *testing.T) {
	ctx := context.Background()
	corpusDir := t.TempDir()
	indexDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "args.json"), []byte(buildCorpus), 0o644))

	store, err := docstore.Open("")
	require.NoError(t, err)
	defer store.Close()

	b, err := NewBuilder(analysis.New(), store, nil)
	require.NoError(t, err)

	idx, err := b.Build(ctx, corpusDir, indexDir, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.NumDocs(), "duplicate id is skipped")
	assert.Equal(t, 1, b.DuplicatesSkipped())
	assert.FileExists(t, filepath.Join(indexDir, indexFileName))

	hits, err := idx.Search(ctx, termQuery(query.FieldBody, 1, "smoking"), 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	id, err := idx.FetchStoredID(ctx, hits[0].Doc)
	require.NoError(t, err)
	assert.Contains(t, []string{"arg-1", "arg-2"}, id)
}

func TestBuildReplacesExistingIndex(t *testing.T) {
	ctx := context.Background()
	corpusDir := t.TempDir()
	indexDir := t.TempDir()
	storePath := filepath.Join(indexDir, "docs.db")
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "args.json"), []byte(buildCorpus), 0o644))

	store, err := docstore.Open(storePath)
	require.NoError(t, err)
	b, err := NewBuilder(analysis.New(), store, nil)
	require.NoError(t, err)
	idx, err := b.Build(ctx, corpusDir, indexDir, 2)
	require.NoError(t, err)
	first := idx.NumDocs()
	require.NoError(t, store.Close())

	// Rebuilding over the same directory reuses the old store file; the
	// previous rows must not collide with the fresh internal ids.
	store, err = docstore.Open(storePath)
	require.NoError(t, err)
	defer store.Close()

	b, err = NewBuilder(analysis.New(), store, nil)
	require.NoError(t, err)
	idx, err = b.Build(ctx, corpusDir, indexDir, 2)
	require.NoError(t, err)

	assert.Equal(t, first, idx.NumDocs())
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, n, "old rows are gone after the rebuild")

	id, err := idx.FetchStoredID(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "arg-1", id)
}

func TestBuildStopsOnMalformedDocument(t *testing.T) {
	ctx := context.Background()
	corpusDir := t.TempDir()
	// One good record, then one without an id: the build must surface the
	// document error, not a cancellation, and must not hang.
	bad := `{
	  "arguments": [
	    {
	      "id": "arg-ok",
	      "conclusion": "Fine",
	      "premises": [{"text": "Fine.", "stance": "PRO"}],
	      "context": {"discussionTitle": "ok"}
	    },
	    {
	      "conclusion": "No id",
	      "premises": [{"text": "Broken.", "stance": "PRO"}],
	      "context": {"discussionTitle": "broken"}
	    }
	  ]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "args.json"), []byte(bad), 0o644))

	store, err := docstore.Open("")
	require.NoError(t, err)
	defer store.Close()

	b, err := NewBuilder(analysis.New(), store, nil)
	require.NoError(t, err)

	_, err = b.Build(ctx, corpusDir, t.TempDir(), 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
}

func TestBuildEmptyCorpusDir(t *testing.T) {
	ctx := context.Background()
	store, err := docstore.Open("")
	require.NoError(t, err)
	defer store.Close()

	b, err := NewBuilder(analysis.New(), store, nil)
	require.NoError(t, err)

	_, err = b.Build(ctx, t.TempDir(), t.TempDir(), 1)
	assert.Error(t, err)
}
