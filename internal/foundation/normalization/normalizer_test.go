package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type layout string

const (
	layoutOld layout = "old"
	layoutNew layout = "new"
)

func newLayoutNormalizer() *Normalizer[layout] {
	return NewNormalizer(map[string]layout{
		"old":    layoutOld,
		"legacy": layoutOld,
		"new":    layoutNew,
	}, layoutNew)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newLayoutNormalizer()

	tests := []struct {
		name     string
		input    string
		expected layout
	}{
		{"exact match", "old", layoutOld},
		{"case insensitive", "OLD", layoutOld},
		{"surrounding spaces", "  new ", layoutNew},
		{"alias spelling", "Legacy", layoutOld},
		{"unknown falls back", "modular", layoutNew},
		{"empty falls back", "", layoutNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Lookup(t *testing.T) {
	n := newLayoutNormalizer()

	v, ok := n.Lookup(" Old")
	require.True(t, ok)
	assert.Equal(t, layoutOld, v)

	_, ok = n.Lookup("frames")
	assert.False(t, ok)
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newLayoutNormalizer()

	v, err := n.NormalizeWithError("NEW")
	require.NoError(t, err)
	assert.Equal(t, layoutNew, v)

	_, err = n.NormalizeWithError("frames")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[legacy new old]")
}

func TestNormalizer_ValidKeysIsACopy(t *testing.T) {
	n := newLayoutNormalizer()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"legacy", "new", "old"}, n.ValidKeys())
	assert.Equal(t, layoutNew, n.Default())
}
