package index

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shanks-ir/argos/internal/docstore"
	"github.com/shanks-ir/argos/internal/errors"
	"github.com/shanks-ir/argos/internal/query"
)

// indexFileName is the on-disk index snapshot inside an index directory.
const indexFileName = "index.gob"

// persistedIndex mirrors Index for gob encoding, without the mutex and
// the runtime-only similarity and store references.
type persistedIndex struct {
	Fields  map[query.Field]*fieldData
	NumDocs uint32
}

// Save writes the index snapshot into dir.
func (idx *Index) Save(dir string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.IOError(fmt.Sprintf("cannot create index directory %s", dir), err)
	}

	path := filepath.Join(dir, indexFileName)
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("cannot create index file %s", path), err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := gob.NewEncoder(w)
	if err := enc.Encode(persistedIndex{Fields: idx.fields, NumDocs: idx.numDocs}); err != nil {
		return errors.IOError(fmt.Sprintf("cannot encode index to %s", path), err)
	}
	if err := w.Flush(); err != nil {
		return errors.IOError(fmt.Sprintf("cannot flush index file %s", path), err)
	}
	return f.Sync()
}

// Load reads an index snapshot from dir and attaches the document store
// used to resolve stored ids.
func Load(dir string, store *docstore.Store) (*Index, error) {
	path := filepath.Join(dir, indexFileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeIndexUnavailable,
			fmt.Sprintf("cannot open index file %s", path), err)
	}
	defer f.Close()

	var data persistedIndex
	dec := gob.NewDecoder(bufio.NewReader(f))
	if err := dec.Decode(&data); err != nil {
		return nil, errors.New(errors.ErrCodeIndexUnavailable,
			fmt.Sprintf("cannot decode index file %s", path), err)
	}

	idx := New(store)
	if data.Fields != nil {
		for field, fd := range data.Fields {
			if fd.Postings == nil {
				fd.Postings = make(map[string]PostingList)
			}
			idx.fields[field] = fd
		}
	}
	idx.numDocs = data.NumDocs
	return idx, nil
}
