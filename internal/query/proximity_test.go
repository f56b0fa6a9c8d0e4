package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProximityGroupAllPairs(t *testing.T) {
	g, err := BuildProximityGroup([]string{"a", "b", "c"}, FieldBody, PairAll, 12, 0.75)
	require.NoError(t, err)

	want := []Pair{
		{A: "a", B: "b", Distance: 12},
		{A: "a", B: "c", Distance: 12},
		{A: "b", B: "c", Distance: 12},
	}
	assert.Equal(t, want, g.Pairs)
	assert.Equal(t, 0.75, g.Boost)
	assert.Equal(t, FieldBody, g.Field)
}

func TestBuildProximityGroupAdjacentPairs(t *testing.T) {
	g, err := BuildProximityGroup([]string{"a", "b", "c"}, FieldTitle, PairAdjacent, 17, 0.75)
	require.NoError(t, err)

	want := []Pair{
		{A: "a", B: "b", Distance: 17},
		{A: "b", B: "c", Distance: 17},
	}
	assert.Equal(t, want, g.Pairs)
}

func TestBuildProximityGroupSkipsEqualTerms(t *testing.T) {
	tests := []struct {
		name   string
		policy PairingPolicy
		terms  []string
		want   []Pair
	}{
		{
			name:   "all pairs skips duplicates",
			policy: PairAll,
			terms:  []string{"x", "x", "y"},
			want: []Pair{
				{A: "x", B: "y", Distance: 5},
				{A: "x", B: "y", Distance: 5},
			},
		},
		{
			name:   "adjacent skips repeated neighbor",
			policy: PairAdjacent,
			terms:  []string{"x", "x", "y"},
			want: []Pair{
				{A: "x", B: "y", Distance: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := BuildProximityGroup(tt.terms, FieldBody, tt.policy, 5, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Pairs)
		})
	}
}

func TestBuildProximityGroupSingleTerm(t *testing.T) {
	g, err := BuildProximityGroup([]string{"solo"}, FieldBody, PairAll, 12, 0.75)
	require.NoError(t, err)
	assert.Empty(t, g.Pairs)
}

func TestBuildProximityGroupRejectsZeroBoost(t *testing.T) {
	_, err := BuildProximityGroup([]string{"a", "b"}, FieldBody, PairAll, 12, 0)
	assert.Error(t, err)
}

func TestBuildProximityGroupRejectsEmptyTerms(t *testing.T) {
	_, err := BuildProximityGroup(nil, FieldBody, PairAll, 12, 1)
	assert.Error(t, err)
}
