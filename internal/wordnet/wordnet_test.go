package wordnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDict lays out a minimal WordNet dict directory.
func writeDict(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"index.noun": "  1 This header line is skipped.\n" +
			"car n 1 1 @ 1 1 00001740\n" +
			"vaping n 1 0 1 1 00002000\n",
		"data.noun": "  1 This header line is skipped.\n" +
			"00001740 05 n 04 car 0 auto 0 motorcar 0 motor_vehicle 0 001 @ 00001741 n 0000 | a wheeled motor vehicle\n" +
			"00002000 05 n 02 vaping 0 vaporization 0 000 | inhaling vapor\n",
		"index.adj": "fast a 1 0 1 1 00100000\n",
		"data.adj":  "00100000 00 a 03 fast 0 quick 0 speedy(p) 0 000 | acting quickly\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open("/does/not/exist")
	assert.Error(t, err)
}

func TestDatabaseLookupSynonyms(t *testing.T) {
	db, err := Open(writeDict(t))
	require.NoError(t, err)

	forms := db.LookupSynonyms("car", Noun)
	assert.Equal(t, []string{"car", "auto", "motorcar", "motor vehicle"}, forms)

	assert.Nil(t, db.LookupSynonyms("car", Adjective))
	assert.Nil(t, db.LookupSynonyms("spaceship", Noun))
}

func TestExpanderLookup(t *testing.T) {
	db, err := Open(writeDict(t))
	require.NoError(t, err)
	exp, err := NewExpander(db)
	require.NoError(t, err)

	tests := []struct {
		term string
		want []string
	}{
		// Self and the multi-word collocation are dropped.
		{"car", []string{"auto", "motorcar"}},
		// Case-insensitive; adjective markers are stripped.
		{"FAST", []string{"quick", "speedy"}},
		{"vaping", []string{"vaporization"}},
		{"spaceship", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, exp.Lookup(tt.term))
		})
	}
}

func TestExpanderNeverReturnsTermOrMultiWord(t *testing.T) {
	db, err := Open(writeDict(t))
	require.NoError(t, err)
	exp, err := NewExpander(db)
	require.NoError(t, err)

	for _, term := range []string{"car", "fast", "vaping"} {
		for _, syn := range exp.Lookup(term) {
			assert.NotEqual(t, term, syn)
			assert.NotContains(t, syn, " ")
		}
	}
}

func TestExpanderDeterministic(t *testing.T) {
	db, err := Open(writeDict(t))
	require.NoError(t, err)
	exp, err := NewExpander(db)
	require.NoError(t, err)

	first := exp.Lookup("car")
	second := exp.Lookup("car")
	assert.Equal(t, first, second)
}

func TestNilExpander(t *testing.T) {
	var exp *Expander
	assert.Nil(t, exp.Lookup("car"))
}
