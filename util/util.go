// Package util provides helpers for generating test corpora.
package util

import (
	"math/rand"

	"github.com/hupe1980/alignvec/distance"
)

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// GenerateRandomVectors generates random vectors using the given RNG.
func (r *RNG) GenerateRandomVectors(num int, dimensions int) [][]float32 {
	vectors := make([][]float32, num)
	for i := range vectors {
		vectors[i] = make([]float32, dimensions)
		for j := range vectors[i] {
			vectors[i][j] = r.rand.Float32()
		}
	}

	return vectors
}

// GenerateRandomUnitVectors generates random L2-normalized vectors.
// Components are drawn from a normal distribution so directions are
// uniform on the sphere.
func (r *RNG) GenerateRandomUnitVectors(num int, dimensions int) [][]float32 {
	vectors := make([][]float32, num)
	for i := range vectors {
		v := make([]float32, dimensions)
		for j := range v {
			v[j] = float32(r.rand.NormFloat64())
		}
		if !distance.NormalizeL2InPlace(v) {
			// Zero draw is vanishingly rare; retry with a fixed axis.
			v[0] = 1
		}
		vectors[i] = v
	}

	return vectors
}
