package errors

// Category groups errors by the subsystem that produced them.
type Category string

const (
	CategoryConfig      Category = "Config"
	CategoryComposition Category = "Composition"
	CategoryLexical     Category = "Lexical"
	CategoryIO          Category = "IO"
	CategoryInternal    Category = "Internal"
)

// Severity indicates how the caller should react to an error.
type Severity string

const (
	// SeverityWarning means the operation degraded but produced a result.
	SeverityWarning Severity = "warning"
	// SeverityError means the current operation failed and was skipped.
	SeverityError Severity = "error"
	// SeverityFatal means the whole run must stop.
	SeverityFatal Severity = "fatal"
)

// Error codes. The numeric band encodes the category:
// 1xx config, 2xx composition, 3xx lexical resources, 4xx I/O, 9xx internal.
const (
	ErrCodeConfigInvalid    = "ERR_101_CONFIG_INVALID"
	ErrCodeUnknownStrategy  = "ERR_102_UNKNOWN_STRATEGY"
	ErrCodeEmptyQuery       = "ERR_201_EMPTY_QUERY"
	ErrCodeComposition      = "ERR_202_COMPOSITION_FAILED"
	ErrCodeLexicalResource  = "ERR_301_LEXICAL_RESOURCE"
	ErrCodeFileNotFound     = "ERR_401_FILE_NOT_FOUND"
	ErrCodeCorpusMalformed  = "ERR_402_CORPUS_MALFORMED"
	ErrCodeTopicsMalformed  = "ERR_403_TOPICS_MALFORMED"
	ErrCodeIndexUnavailable = "ERR_404_INDEX_UNAVAILABLE"
	ErrCodeRunWrite         = "ERR_405_RUN_WRITE"
	ErrCodeInternal         = "ERR_901_INTERNAL"
)

// categoryFromCode derives the category from the numeric band of a code.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryComposition
	case '3':
		return CategoryLexical
	case '4':
		return CategoryIO
	default:
		return CategoryInternal
	}
}

// severityFromCode derives the severity from a code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeConfigInvalid, ErrCodeUnknownStrategy, ErrCodeIndexUnavailable, ErrCodeRunWrite:
		return SeverityFatal
	case ErrCodeEmptyQuery, ErrCodeLexicalResource:
		return SeverityWarning
	default:
		return SeverityError
	}
}
