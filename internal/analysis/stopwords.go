package analysis

// DefaultStopWords is the English stop set applied by the default
// analyzer to both indexed text and topic titles.
var DefaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by",
	"for", "if", "in", "into", "is", "it",
	"no", "not", "of", "on", "or", "such",
	"that", "the", "their", "then", "there", "these",
	"they", "this", "to", "was", "will", "with",
	"should", "would", "could", "do", "does", "did",
	"have", "has", "had", "i", "you", "we", "he", "she",
}
