package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/alignvec/metadata"
)

func newTestIndex(t *testing.T, dim int) *Index {
	t.Helper()
	x, err := New(func(o *Options) {
		o.Dimension = dim
		o.Space = "test-space"
	})
	require.NoError(t, err)
	return x
}

// unit returns the unit vector in dim dimensions whose dot product with
// e1 = (1,0,...) equals sim.
func unit(dim int, sim float64) []float32 {
	v := make([]float32, dim)
	v[0] = float32(sim)
	v[1] = float32(math.Sqrt(1 - sim*sim))
	return v
}

func meta(text string) metadata.Metadata {
	return metadata.Metadata{metadata.TextKey: text}
}

func TestNew(t *testing.T) {
	_, err := New(func(o *Options) { o.Dimension = 8 })
	require.NoError(t, err)

	_, err = New()
	var invalid *ErrInvalidDimension
	assert.ErrorAs(t, err, &invalid)
}

func TestAdd(t *testing.T) {
	t.Run("NormalizesInPlace", func(t *testing.T) {
		x := newTestIndex(t, 2)
		v := []float32{3, 4}
		require.NoError(t, x.Add([][]float32{v}, []metadata.Metadata{meta("a")}))

		assert.InDelta(t, 0.6, v[0], 1e-6)
		e, ok := x.Entry(0)
		require.True(t, ok)
		assert.InDelta(t, 0.8, e.Vector[1], 1e-6)
	})

	t.Run("DimensionMismatchLeavesIndexUntouched", func(t *testing.T) {
		x := newTestIndex(t, 3)
		err := x.Add(
			[][]float32{{1, 0, 0}, {1, 0}},
			[]metadata.Metadata{meta("a"), meta("b")},
		)
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 2, dm.Actual)
		assert.Equal(t, 0, x.Len())
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		x := newTestIndex(t, 3)
		err := x.Add([][]float32{{1, 0, 0}}, nil)
		require.Error(t, err)
		assert.Equal(t, 0, x.Len())
	})

	t.Run("PositionsAreStable", func(t *testing.T) {
		x := newTestIndex(t, 2)
		require.NoError(t, x.Add([][]float32{{1, 0}}, []metadata.Metadata{meta("a")}))
		require.NoError(t, x.Add([][]float32{{0, 1}}, []metadata.Metadata{meta("b")}))

		e, ok := x.Entry(1)
		require.True(t, ok)
		assert.Equal(t, "b", e.Meta.Text())

		_, ok = x.Entry(2)
		assert.False(t, ok)
	})
}

func TestSearch(t *testing.T) {
	t.Run("OrderedByDescendingScore", func(t *testing.T) {
		x := newTestIndex(t, 3)
		require.NoError(t, x.Add(
			[][]float32{unit(3, 0.3), unit(3, 0.9), unit(3, 0.6)},
			[]metadata.Metadata{meta("low"), meta("high"), meta("mid")},
		))

		results, err := x.Search([]float32{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "high", results[0].Entry.Meta.Text())
		assert.Equal(t, "mid", results[1].Entry.Meta.Text())
		assert.Equal(t, "low", results[2].Entry.Meta.Text())
		assert.True(t, results[0].Score >= results[1].Score)
		assert.True(t, results[1].Score >= results[2].Score)
	})

	t.Run("TiesBreakByInsertionPosition", func(t *testing.T) {
		x := newTestIndex(t, 2)
		same := [][]float32{{1, 0}, {1, 0}, {1, 0}}
		require.NoError(t, x.Add(same, []metadata.Metadata{meta("a"), meta("b"), meta("c")}))

		results, err := x.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, uint32(0), results[0].Entry.Position)
		assert.Equal(t, uint32(1), results[1].Entry.Position)
		assert.Equal(t, uint32(2), results[2].Entry.Position)
	})

	t.Run("Deterministic", func(t *testing.T) {
		x := newTestIndex(t, 3)
		require.NoError(t, x.Add(
			[][]float32{unit(3, 0.5), unit(3, 0.5), unit(3, 0.8)},
			[]metadata.Metadata{meta("a"), meta("b"), meta("c")},
		))

		q := []float32{2, 0, 0} // unnormalized on purpose
		first, err := x.Search(q, 3)
		require.NoError(t, err)
		second, err := x.Search(q, 3)
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Entry.Position, second[i].Entry.Position)
			assert.Equal(t, first[i].Score, second[i].Score)
		}
	})

	t.Run("KClampedToEntryCount", func(t *testing.T) {
		x := newTestIndex(t, 2)
		require.NoError(t, x.Add([][]float32{{1, 0}}, []metadata.Metadata{meta("a")}))

		results, err := x.Search([]float32{1, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		x := newTestIndex(t, 2)
		results, err := x.Search([]float32{1, 0}, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("InvalidK", func(t *testing.T) {
		x := newTestIndex(t, 2)
		_, err := x.Search([]float32{1, 0}, 0)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("QueryDimensionMismatch", func(t *testing.T) {
		x := newTestIndex(t, 3)
		_, err := x.Search([]float32{1, 0}, 1)
		var dm *ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})

	t.Run("QueryNormalizedInternally", func(t *testing.T) {
		x := newTestIndex(t, 2)
		require.NoError(t, x.Add([][]float32{{1, 0}}, []metadata.Metadata{meta("a")}))

		results, err := x.Search([]float32{100, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	})
}

func TestSearchAboveThreshold(t *testing.T) {
	t.Run("Containment", func(t *testing.T) {
		x := newTestIndex(t, 3)
		sims := []float64{0.95, 0.3, 0.8, 0.1, 0.7}
		vectors := make([][]float32, len(sims))
		metas := make([]metadata.Metadata, len(sims))
		for i, s := range sims {
			vectors[i] = unit(3, s)
			metas[i] = meta("e")
		}
		require.NoError(t, x.Add(vectors, metas))

		results, err := x.SearchAboveThreshold([]float32{1, 0, 0}, 0.6, 5)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Score, 0.6)
		}
	})

	t.Run("BoundedPoolExcludesBeyondTopK", func(t *testing.T) {
		x := newTestIndex(t, 3)
		// Seven entries above the threshold; the pool of five must exclude
		// the two weakest even though they clear the threshold.
		sims := []float64{0.95, 0.94, 0.93, 0.92, 0.91, 0.90, 0.85}
		vectors := make([][]float32, len(sims))
		metas := make([]metadata.Metadata, len(sims))
		for i, s := range sims {
			vectors[i] = unit(3, s)
			metas[i] = meta("e")
		}
		require.NoError(t, x.Add(vectors, metas))

		results, err := x.SearchAboveThreshold([]float32{1, 0, 0}, 0.5, 5)
		require.NoError(t, err)
		require.Len(t, results, 5)
		for _, r := range results {
			assert.Greater(t, r.Score, 0.905)
		}
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		x := newTestIndex(t, 3)
		results, err := x.SearchAboveThreshold([]float32{1, 0, 0}, 0.5, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
