package wordnet

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize bounds the synonym lookup cache. Topic titles reuse
// few distinct terms, so a small cache covers a whole run.
const defaultCacheSize = 4096

// Expander produces single-word synonym candidates for query terms from
// the noun and adjective synsets of a WordNet database.
type Expander struct {
	db    *Database
	cache *lru.Cache[string, []string]
}

// NewExpander wraps db with an LRU-cached synonym expander.
func NewExpander(db *Database) (*Expander, error) {
	cache, err := lru.New[string, []string](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Expander{db: db, cache: cache}, nil
}

// Lookup returns the deduplicated, lowercased single-word synonyms of
// term across its noun and adjective senses. Multi-word forms and the
// term itself are dropped. An unknown term yields an empty result, never
// an error. Results are deterministic for a fixed database snapshot.
func (e *Expander) Lookup(term string) []string {
	if e == nil || e.db == nil {
		return nil
	}

	key := strings.ToLower(term)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	forms := e.db.LookupSynonyms(key, Noun)
	forms = append(forms, e.db.LookupSynonyms(key, Adjective)...)

	seen := make(map[string]struct{}, len(forms))
	synonyms := make([]string, 0, len(forms))
	for _, form := range forms {
		if strings.Contains(form, " ") {
			continue
		}
		lower := strings.ToLower(form)
		if lower == key {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		synonyms = append(synonyms, lower)
	}

	e.cache.Add(key, synonyms)
	return synonyms
}
