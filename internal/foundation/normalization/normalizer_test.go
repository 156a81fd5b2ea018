package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projection string

const (
	projSimple   projection = "simple"
	projMercator projection = "epsg3857"
)

func newProjectionNormalizer() *Normalizer[projection] {
	return NewNormalizer(map[string]projection{
		"simple":   projSimple,
		"EPSG3857": projMercator,
	}, projSimple)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newProjectionNormalizer()

	tests := []struct {
		name     string
		input    string
		expected projection
	}{
		{"exact match", "simple", projSimple},
		{"key folded on construction", "epsg3857", projMercator},
		{"case insensitive", "EpSg3857", projMercator},
		{"surrounding spaces", "  simple\t", projSimple},
		{"unknown falls back", "mercator", projSimple},
		{"empty falls back", "", projSimple},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newProjectionNormalizer()

	got, err := n.NormalizeWithError(" EPSG3857 ")
	require.NoError(t, err)
	assert.Equal(t, projMercator, got)

	got, err = n.NormalizeWithError("lambert")
	require.Error(t, err)
	assert.Equal(t, projSimple, got)
	assert.Contains(t, err.Error(), `"lambert"`)
	assert.Contains(t, err.Error(), "[epsg3857 simple]")
}

func TestNormalizer_ValidKeysIsACopy(t *testing.T) {
	n := newProjectionNormalizer()

	keys := n.ValidKeys()
	assert.Equal(t, []string{"epsg3857", "simple"}, keys)

	keys[0] = "mutated"
	assert.Equal(t, []string{"epsg3857", "simple"}, n.ValidKeys())
}
