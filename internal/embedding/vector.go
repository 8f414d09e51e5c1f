package embedding

import "math"

// FitDimension returns v truncated or zero-padded to exactly dim values.
func FitDimension(v []float64, dim int) []float64 {
	if dim < 0 {
		dim = 0
	}
	out := make([]float64, dim)
	copy(out, v)
	return out
}

// Normalize scales v in place to unit Euclidean length. A zero vector is left unchanged.
func Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// ToFloat32 converts []float64 to []float32.
// Vector stores index float32; listing files keep float64.
func ToFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
