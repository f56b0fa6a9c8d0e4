package index

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/shanks-ir/argos/internal/analysis"
	"github.com/shanks-ir/argos/internal/corpus"
	"github.com/shanks-ir/argos/internal/docstore"
	"github.com/shanks-ir/argos/internal/errors"
)

const (
	// lockFileName guards an index directory against concurrent builds.
	lockFileName = ".argos.lock"

	// progressInterval is how often the builder logs indexing progress.
	progressInterval = 10000
)

// Builder constructs an Index from a corpus directory.
type Builder struct {
	analyzer *analysis.Analyzer
	store    *docstore.Store
	logger   *slog.Logger

	idx *Index
	// seen tracks external ids; duplicate records keep their first
	// occurrence, matching the reference corpus handling.
	seen       map[string]struct{}
	duplicates int
}

// NewBuilder creates a builder that tokenizes with analyzer and stores
// document fields in store.
func NewBuilder(analyzer *analysis.Analyzer, store *docstore.Store, logger *slog.Logger) (*Builder, error) {
	if analyzer == nil {
		return nil, errors.ConfigError("builder requires an analyzer", nil)
	}
	if store == nil {
		return nil, errors.ConfigError("builder requires a document store", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		analyzer: analyzer,
		store:    store,
		logger:   logger,
		idx:      New(store),
		seen:     make(map[string]struct{}),
	}, nil
}

// Add indexes one document: title and body fields with positions, stored
// fields to the document store. Duplicate external ids are skipped.
func (b *Builder) Add(ctx context.Context, doc corpus.Document) error {
	if doc.ID == "" {
		return errors.New(errors.ErrCodeCorpusMalformed, "document without id", nil)
	}
	if _, dup := b.seen[doc.ID]; dup {
		b.duplicates++
		return nil
	}
	b.seen[doc.ID] = struct{}{}

	internalID := b.idx.numDocs
	if err := b.store.Put(ctx, internalID, doc); err != nil {
		return err
	}

	b.addField(b.idx.fields["title"], internalID, b.analyzer.Tokens(doc.Title))
	b.addField(b.idx.fields["body"], internalID, b.analyzer.Tokens(doc.Body))
	b.idx.numDocs++

	if b.idx.numDocs%progressInterval == 0 {
		b.logger.Info("indexing progress", slog.Int("docs", int(b.idx.numDocs)))
	}
	return nil
}

func (b *Builder) addField(f *fieldData, doc uint32, tokens []string) {
	for int(doc) >= len(f.DocLen) {
		f.DocLen = append(f.DocLen, 0)
	}
	f.DocLen[doc] = uint32(len(tokens))
	f.TotalLen += uint64(len(tokens))

	for pos, term := range tokens {
		pl := f.Postings[term]
		if n := len(pl); n > 0 && pl[n-1].Doc == doc {
			pl[n-1].Positions = append(pl[n-1].Positions, uint32(pos))
		} else {
			pl = append(pl, Posting{Doc: doc, Positions: []uint32{uint32(pos)}})
		}
		f.Postings[term] = pl
	}
}

// Build walks corpusDir for .json corpus files, indexes every document,
// and persists the result under indexDir, replacing any index the
// directory held before. The index directory is guarded by a file lock
// for the duration of the build. Corpus files are parsed concurrently;
// posting mutation stays on one goroutine.
func (b *Builder) Build(ctx context.Context, corpusDir, indexDir string, workers int) (*Index, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	lock := flock.New(filepath.Join(indexDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("cannot lock index directory %s", indexDir), err)
	}
	if !locked {
		return nil, errors.New(errors.ErrCodeIndexUnavailable,
			fmt.Sprintf("index directory %s is locked by another build", indexDir), nil)
	}
	defer func() { _ = lock.Unlock() }()

	// A build replaces whatever the directory held before: clear the
	// stored fields so internal ids can start at zero again, and start
	// from a fresh index. The snapshot file is truncated on Save.
	if err := b.store.Reset(ctx); err != nil {
		return nil, err
	}
	b.idx = New(b.store)
	b.seen = make(map[string]struct{})
	b.duplicates = 0

	files, err := corpusFiles(corpusDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.IOError(fmt.Sprintf("no corpus files under %s", corpusDir), nil)
	}
	b.logger.Info("building index",
		slog.Int("corpus_files", len(files)),
		slog.Int("workers", workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	docs := make(chan corpus.Document, 512)

	// Single consumer owns all index mutation.
	consumed := make(chan error, 1)
	go func() {
		for doc := range docs {
			if err := b.Add(ctx, doc); err != nil {
				consumed <- err
				// Stop the producers, then drain so none stay blocked
				// mid-send on a dead consumer.
				cancel()
				for range docs {
				}
				return
			}
		}
		consumed <- nil
	}()

	for _, file := range files {
		g.Go(func() error {
			return corpus.ParseFile(file, func(doc corpus.Document) error {
				select {
				case docs <- doc:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		})
	}

	parseErr := g.Wait()
	close(docs)
	if err := <-consumed; err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}

	b.logger.Info("indexing complete",
		slog.Int("docs", b.idx.NumDocs()),
		slog.Int("duplicates_skipped", b.duplicates),
		slog.Int("title_terms", b.idx.TermCount("title")),
		slog.Int("body_terms", b.idx.TermCount("body")))

	if err := b.idx.Save(indexDir); err != nil {
		return nil, err
	}
	return b.idx, nil
}

// Index returns the index built so far. Intended for tests and for
// callers driving Add directly.
func (b *Builder) Index() *Index {
	return b.idx
}

// DuplicatesSkipped reports how many duplicate-id records were dropped.
func (b *Builder) DuplicatesSkipped() int {
	return b.duplicates
}

// corpusFiles lists the .json files under dir, recursively.
func corpusFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("cannot walk corpus directory %s", dir), err)
	}
	return files, nil
}
