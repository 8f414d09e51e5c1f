package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func TestFallbackVector_Deterministic(t *testing.T) {
	for _, dim := range []int{1, 8, VectorDimension, RequestedDimension} {
		a := FallbackVector("Title: 2 BHK Flat | Rent: ₹15000", dim)
		b := FallbackVector("Title: 2 BHK Flat | Rent: ₹15000", dim)
		require.Len(t, a, dim)
		assert.Equal(t, a, b, "dim %d", dim)
	}
}

func TestFallbackVector_UnitNorm(t *testing.T) {
	for _, text := range []string{"", "a", "Title: Studio | Zone: Central"} {
		v := FallbackVector(text, VectorDimension)
		assert.InDelta(t, 1.0, norm(v), 1e-9, "text %q", text)
	}
}

func TestFallbackVector_DiffersByText(t *testing.T) {
	a := FallbackVector("Title: Studio", 16)
	b := FallbackVector("Title: Penthouse", 16)
	assert.NotEqual(t, a, b)
}

func TestFallbackVector_EmptyText(t *testing.T) {
	v := FallbackVector("", 32)
	assert.Len(t, v, 32)
	assert.Equal(t, v, FallbackVector("", 32))
}

func TestFallbackVector_NonPositiveDimension(t *testing.T) {
	assert.Empty(t, FallbackVector("text", 0))
	assert.Empty(t, FallbackVector("text", -3))
}

func TestFitDimension(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, FitDimension([]float64{1, 2, 3}, 2))
	assert.Equal(t, []float64{1, 0, 0}, FitDimension([]float64{1}, 3))
	assert.Equal(t, []float64{0, 0}, FitDimension(nil, 2))
}

func TestNormalize_ZeroVector(t *testing.T) {
	assert.Equal(t, []float64{0, 0}, Normalize([]float64{0, 0}))
}

func TestToFloat32(t *testing.T) {
	assert.Equal(t, []float32{0.5, -1}, ToFloat32([]float64{0.5, -1}))
}
