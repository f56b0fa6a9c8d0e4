// Package analysis turns raw text into the normalized token stream shared
// by the indexing and topic-tokenization paths. Both paths must agree, or
// query terms would never match indexed terms.
package analysis

import (
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// Analyzer normalizes text: unicode word segmentation, lowercasing,
// English possessive stripping, stop word removal.
type Analyzer struct {
	chain *analysis.DefaultAnalyzer
}

// New creates an analyzer with the default English stop set.
func New() *Analyzer {
	return NewWithStopWords(DefaultStopWords)
}

// NewWithStopWords creates an analyzer with a caller-supplied stop set.
func NewWithStopWords(stopWords []string) *Analyzer {
	tokenMap := analysis.NewTokenMap()
	for _, w := range stopWords {
		tokenMap.AddToken(strings.ToLower(w))
	}

	return &Analyzer{
		chain: &analysis.DefaultAnalyzer{
			Tokenizer: unicode.NewUnicodeTokenizer(),
			TokenFilters: []analysis.TokenFilter{
				lowercase.NewLowerCaseFilter(),
				newPossessiveFilter(),
				stop.NewStopTokensFilter(tokenMap),
			},
		},
	}
}

// Tokens returns the normalized terms of text, in order.
func (a *Analyzer) Tokens(text string) []string {
	stream := a.chain.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms
}

// possessiveFilter strips trailing English possessive markers ('s) from
// each token, mirroring what the lowercase filter leaves behind for
// tokens like "york's".
type possessiveFilter struct{}

func newPossessiveFilter() *possessiveFilter {
	return &possessiveFilter{}
}

func (f *possessiveFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for _, tok := range input {
		term := string(tok.Term)
		for _, suffix := range []string{"'s", "’s"} {
			if strings.HasSuffix(term, suffix) {
				tok.Term = []byte(strings.TrimSuffix(term, suffix))
				break
			}
		}
	}
	return input
}

var _ analysis.TokenFilter = (*possessiveFilter)(nil)
