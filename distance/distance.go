// Package distance provides vector distance and normalization primitives.
//
// Alignvec stores and queries unit-norm vectors only, so cosine similarity
// reduces to a plain inner product everywhere in the module.
package distance

import (
	"math"
	"slices"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Cosine calculates the cosine similarity of two unit-norm vectors,
// clamped to [0, 1]. The clamp guards against floating-point drift
// slightly outside the unit range.
func Cosine(a, b []float32) float64 {
	return Clamp01(float64(Dot(a, b)))
}

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// NormalizeL2InPlace L2-normalizes v in place.
// Normalization is idempotent: a vector that already has unit norm is
// unchanged up to floating-point error.
// Returns false if v is empty or has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := Dot(v, v)
	if norm2 == 0 {
		return false
	}
	inv := 1 / float32(math.Sqrt(float64(norm2)))
	for i := range v {
		v[i] *= inv
	}
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src is empty or has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}
