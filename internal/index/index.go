// Package index implements the positional inverted index the retrieval
// strategies search against, with pluggable similarity scoring and
// per-document rescoring.
package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shanks-ir/argos/internal/docstore"
	"github.com/shanks-ir/argos/internal/errors"
	"github.com/shanks-ir/argos/internal/query"
	"github.com/shanks-ir/argos/internal/similarity"
)

// Posting is one document's occurrences of a term in one field.
// Positions are 0-based token offsets, ascending.
type Posting struct {
	Doc       uint32
	Positions []uint32
}

// PostingList is a term's postings, ascending by document number.
type PostingList []Posting

// fieldData holds one field's postings and length statistics.
type fieldData struct {
	Postings map[string]PostingList
	// DocLen is the field's token length per internal document number.
	DocLen []uint32
	// TotalLen is the field's total token count across the corpus.
	TotalLen uint64
}

// ScoredDocument is one retrieval hit: an internal document number and
// its relevance score.
type ScoredDocument struct {
	Doc   uint32
	Score float64
}

// Index is the searchable corpus snapshot. It is immutable after build
// or load except for the similarity selection, which is process-wide
// mutable state set immediately before use.
type Index struct {
	mu      sync.RWMutex
	fields  map[query.Field]*fieldData
	numDocs uint32
	sim     similarity.Similarity
	store   *docstore.Store
}

// New returns an empty index scored by BM25 until changed.
func New(store *docstore.Store) *Index {
	return &Index{
		fields: map[query.Field]*fieldData{
			query.FieldTitle: newFieldData(),
			query.FieldBody:  newFieldData(),
		},
		sim:   similarity.NewBM25(),
		store: store,
	}
}

func newFieldData() *fieldData {
	return &fieldData{Postings: make(map[string]PostingList)}
}

// SetSimilarity selects the scoring function for subsequent Search and
// Rescore calls. Callers must not interleave phases that need different
// similarities.
func (idx *Index) SetSimilarity(sim similarity.Similarity) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.sim = sim
}

// Similarity returns the currently selected scoring function.
func (idx *Index) Similarity() similarity.Similarity {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.sim
}

// NumDocs returns the number of indexed documents.
func (idx *Index) NumDocs() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return int(idx.numDocs)
}

// TermCount returns the vocabulary size of a field.
func (idx *Index) TermCount(field query.Field) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if f, ok := idx.fields[field]; ok {
		return len(f.Postings)
	}
	return 0
}

// Search evaluates the query tree and returns up to k hits, descending
// by score. Ties order by ascending document number so runs are
// reproducible.
func (idx *Index) Search(ctx context.Context, q query.Node, k int) ([]ScoredDocument, error) {
	if k <= 0 {
		return nil, errors.ConfigError("result limit must be positive", nil)
	}
	if q == nil {
		return nil, errors.CompositionError("cannot search a nil query", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	terms, prox := flatten(q)
	scores := make(map[uint32]float64)

	for _, c := range terms {
		idx.scoreTermClause(c, scores)
	}
	for _, c := range prox {
		idx.scoreProximityClause(c, scores)
	}

	hits := make([]ScoredDocument, 0, len(scores))
	for doc, score := range scores {
		hits = append(hits, ScoredDocument{Doc: doc, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Doc < hits[j].Doc
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Rescore computes the relevance of one document against a query under
// the currently selected similarity, without re-running retrieval.
func (idx *Index) Rescore(ctx context.Context, q query.Node, doc uint32) (float64, error) {
	if q == nil {
		return 0, errors.CompositionError("cannot rescore against a nil query", nil)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if doc >= idx.numDocs {
		return 0, errors.InternalError(fmt.Sprintf("unknown internal document %d", doc), nil)
	}

	terms, prox := flatten(q)

	var score float64
	for _, c := range terms {
		f, ok := idx.fields[c.field]
		if !ok {
			continue
		}
		pl := f.Postings[c.term]
		if len(pl) == 0 {
			continue
		}
		p, ok := pl.find(doc)
		if !ok {
			continue
		}
		score += c.boost * idx.sim.Score(idx.termStats(f, len(pl), collectionFreq(pl), len(p.Positions), doc))
	}
	for _, c := range prox {
		f, ok := idx.fields[c.field]
		if !ok {
			continue
		}
		pa := f.Postings[c.pair.A]
		pb := f.Postings[c.pair.B]
		if len(pa) == 0 || len(pb) == 0 {
			continue
		}
		a, okA := pa.find(doc)
		b, okB := pb.find(doc)
		if !okA || !okB {
			continue
		}
		tf := countPairsWithin(a.Positions, b.Positions, c.pair.Distance)
		if tf == 0 {
			continue
		}
		df := min(len(pa), len(pb))
		cf := min(collectionFreq(pa), collectionFreq(pb))
		score += c.boost * idx.sim.Score(idx.termStats(f, df, cf, tf, doc))
	}

	return score, nil
}

// FetchStoredID resolves an internal document number to the external
// document identifier.
func (idx *Index) FetchStoredID(ctx context.Context, doc uint32) (string, error) {
	if idx.store == nil {
		return "", errors.InternalError("index has no document store attached", nil)
	}
	return idx.store.ExternalID(ctx, doc)
}

// termClause is a single boosted term against one field, with the boost
// chain of its enclosing groups already multiplied in.
type termClause struct {
	field query.Field
	term  string
	boost float64
}

// proxClause is a single boosted proximity pair against one field.
type proxClause struct {
	field query.Field
	pair  query.Pair
	boost float64
}

// flatten walks the query tree into flat scoring clauses. Group boosts
// distribute multiplicatively over their members.
func flatten(q query.Node) ([]termClause, []proxClause) {
	var terms []termClause
	var prox []proxClause

	var walk func(n query.Node)
	walk = func(n query.Node) {
		switch node := n.(type) {
		case *query.TermGroup:
			for _, bt := range node.Terms {
				terms = append(terms, termClause{
					field: node.Field,
					term:  bt.Term,
					boost: node.Boost * bt.Boost,
				})
			}
		case *query.ProximityGroup:
			for _, p := range node.Pairs {
				prox = append(prox, proxClause{field: node.Field, pair: p, boost: node.Boost})
			}
		case *query.Disjunction:
			for _, child := range node.Children {
				walk(child)
			}
		}
	}
	walk(q)

	return terms, prox
}

// scoreTermClause accumulates one term clause's contribution for every
// matching document.
func (idx *Index) scoreTermClause(c termClause, scores map[uint32]float64) {
	f, ok := idx.fields[c.field]
	if !ok {
		return
	}
	pl := f.Postings[c.term]
	if len(pl) == 0 {
		return
	}

	df := len(pl)
	cf := collectionFreq(pl)
	for _, p := range pl {
		scores[p.Doc] += c.boost * idx.sim.Score(idx.termStats(f, df, cf, len(p.Positions), p.Doc))
	}
}

// scoreProximityClause accumulates one pair clause's contribution. The
// pair behaves as a pseudo-term whose frequency is the number of
// position pairs within the distance window, with document and
// collection frequency taken as the rarer member's.
func (idx *Index) scoreProximityClause(c proxClause, scores map[uint32]float64) {
	f, ok := idx.fields[c.field]
	if !ok {
		return
	}
	pa := f.Postings[c.pair.A]
	pb := f.Postings[c.pair.B]
	if len(pa) == 0 || len(pb) == 0 {
		return
	}

	df := min(len(pa), len(pb))
	cf := min(collectionFreq(pa), collectionFreq(pb))

	i, j := 0, 0
	for i < len(pa) && j < len(pb) {
		switch {
		case pa[i].Doc < pb[j].Doc:
			i++
		case pa[i].Doc > pb[j].Doc:
			j++
		default:
			tf := countPairsWithin(pa[i].Positions, pb[j].Positions, c.pair.Distance)
			if tf > 0 {
				scores[pa[i].Doc] += c.boost * idx.sim.Score(idx.termStats(f, df, cf, tf, pa[i].Doc))
			}
			i++
			j++
		}
	}
}

// termStats assembles the similarity inputs for one clause occurrence.
func (idx *Index) termStats(f *fieldData, df int, cf int64, tf int, doc uint32) similarity.TermStats {
	var docLen int64
	if int(doc) < len(f.DocLen) {
		docLen = int64(f.DocLen[doc])
	}
	var avg float64
	if idx.numDocs > 0 {
		avg = float64(f.TotalLen) / float64(idx.numDocs)
	}
	return similarity.TermStats{
		TermFreq:       float64(tf),
		DocFreq:        int64(df),
		CollectionFreq: cf,
		DocLen:         docLen,
		AvgDocLen:      avg,
		NumDocs:        int64(idx.numDocs),
		CollectionLen:  int64(f.TotalLen),
	}
}

// countPairsWithin counts position pairs at most dist tokens apart,
// order-insensitive.
func countPairsWithin(a, b []uint32, dist int) int {
	d := int64(dist)
	count := 0
	lo, hi := 0, 0
	for _, pa := range a {
		p := int64(pa)
		for lo < len(b) && int64(b[lo]) < p-d {
			lo++
		}
		if hi < lo {
			hi = lo
		}
		for hi < len(b) && int64(b[hi]) <= p+d {
			hi++
		}
		count += hi - lo
	}
	return count
}

// collectionFreq is the term's total occurrence count in the corpus.
func collectionFreq(pl PostingList) int64 {
	var cf int64
	for _, p := range pl {
		cf += int64(len(p.Positions))
	}
	return cf
}

// find binary-searches the posting list for a document.
func (pl PostingList) find(doc uint32) (Posting, bool) {
	i := sort.Search(len(pl), func(i int) bool { return pl[i].Doc >= doc })
	if i < len(pl) && pl[i].Doc == doc {
		return pl[i], true
	}
	return Posting{}, false
}
