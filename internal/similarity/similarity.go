// Package similarity provides the relevance scoring functions selectable
// by the retrieval strategies.
package similarity

import (
	"math"
)

// TermStats carries the corpus statistics a similarity needs to score
// one term occurrence in one document field.
type TermStats struct {
	// TermFreq is the number of occurrences of the term in the document
	// field. For proximity clauses it is the number of matching pairs.
	TermFreq float64
	// DocFreq is the number of documents containing the term.
	DocFreq int64
	// CollectionFreq is the total occurrences of the term in the corpus.
	CollectionFreq int64
	// DocLen is the token length of the document field.
	DocLen int64
	// AvgDocLen is the mean token length of the field across the corpus.
	AvgDocLen float64
	// NumDocs is the number of documents in the corpus.
	NumDocs int64
	// CollectionLen is the total token count of the field in the corpus.
	CollectionLen int64
}

// Similarity scores a single term's contribution to a document's
// relevance. Implementations are stateless values; the index holds the
// currently selected one.
type Similarity interface {
	Name() string
	Score(stats TermStats) float64
}

// BM25 is the probabilistic term-frequency/inverse-document-frequency
// scoring function.
type BM25 struct {
	K1 float64
	B  float64
}

// NewBM25 returns a BM25 similarity with the standard parameters.
func NewBM25() BM25 {
	return BM25{K1: 1.2, B: 0.75}
}

func (BM25) Name() string { return "bm25" }

// Score implements the BM25 formula with document length normalization.
func (s BM25) Score(st TermStats) float64 {
	if st.TermFreq <= 0 || st.DocFreq <= 0 || st.NumDocs <= 0 {
		return 0
	}

	n := float64(st.NumDocs)
	df := float64(st.DocFreq)
	idf := math.Log(1 + (n-df+0.5)/(df+0.5))

	norm := 1 - s.B
	if st.AvgDocLen > 0 {
		norm += s.B * float64(st.DocLen) / st.AvgDocLen
	}
	tf := st.TermFreq * (s.K1 + 1) / (st.TermFreq + s.K1*norm)

	return idf * tf
}

// DirichletLM is the Dirichlet-smoothed language model scoring function.
type DirichletLM struct {
	Mu float64
}

// NewDirichletLM returns a Dirichlet LM similarity with mu = 2000.
func NewDirichletLM() DirichletLM {
	return DirichletLM{Mu: 2000}
}

func (DirichletLM) Name() string { return "lm-dirichlet" }

// Score implements Dirichlet-smoothed language model scoring. Scores are
// clamped at zero: smoothing can make rare-term contributions negative,
// and negative clause scores must not cancel other clauses.
func (s DirichletLM) Score(st TermStats) float64 {
	if st.TermFreq <= 0 || st.CollectionFreq <= 0 || st.CollectionLen <= 0 {
		return 0
	}

	pc := float64(st.CollectionFreq) / float64(st.CollectionLen)
	score := math.Log(1+st.TermFreq/(s.Mu*pc)) + math.Log(s.Mu/(float64(st.DocLen)+s.Mu))
	if score < 0 {
		return 0
	}
	return score
}

// Blended averages the scores of its component similarities.
type Blended struct {
	Components []Similarity
}

// NewBlended returns the arithmetic mean of the given similarities.
func NewBlended(components ...Similarity) Blended {
	return Blended{Components: components}
}

func (Blended) Name() string { return "blended" }

func (s Blended) Score(st TermStats) float64 {
	if len(s.Components) == 0 {
		return 0
	}
	var sum float64
	for _, c := range s.Components {
		sum += c.Score(st)
	}
	return sum / float64(len(s.Components))
}

var (
	_ Similarity = BM25{}
	_ Similarity = DirichletLM{}
	_ Similarity = Blended{}
)
