package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantCategory Category
		wantSeverity Severity
	}{
		{"config invalid", ErrCodeConfigInvalid, CategoryConfig, SeverityFatal},
		{"unknown strategy", ErrCodeUnknownStrategy, CategoryConfig, SeverityFatal},
		{"empty query", ErrCodeEmptyQuery, CategoryComposition, SeverityWarning},
		{"composition failed", ErrCodeComposition, CategoryComposition, SeverityError},
		{"lexical resource", ErrCodeLexicalResource, CategoryLexical, SeverityWarning},
		{"corpus malformed", ErrCodeCorpusMalformed, CategoryIO, SeverityError},
		{"run write", ErrCodeRunWrite, CategoryIO, SeverityFatal},
		{"internal", ErrCodeInternal, CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
			assert.Equal(t, tt.wantSeverity, err.Severity)
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestUnwrapChain(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := IOError("cannot open corpus", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("searching: %w", ConfigError("bad K", nil))

	assert.True(t, stderrors.Is(err, ConfigError("", nil)))
	assert.False(t, stderrors.Is(err, IOError("", nil)))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ConfigError("bad", nil)))
	assert.False(t, IsFatal(LexicalError("wordnet missing", nil)))
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := CompositionError("no clauses", nil).WithDetail("topic", "12")
	assert.Equal(t, "12", err.Details["topic"])
	assert.Equal(t, CategoryComposition, GetCategory(err))
	assert.Equal(t, ErrCodeComposition, GetCode(err))
}
