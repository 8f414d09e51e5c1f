package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
)

// FallbackVector derives a deterministic unit vector of length dim from text
// without any network access. The SHA-256 digest of text seeds the generator,
// so equal texts always map to bit-identical vectors. The vector carries no
// semantic meaning.
func FallbackVector(text string, dim int) []float64 {
	if dim <= 0 {
		return []float64{}
	}

	sum := sha256.Sum256([]byte(text))
	rng := rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))

	v := make([]float64, dim)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return Normalize(v)
}
