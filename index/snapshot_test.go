package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/alignvec/blobstore"
	"github.com/hupe1980/alignvec/codec"
	"github.com/hupe1980/alignvec/metadata"
)

func populatedIndex(t *testing.T) *Index {
	t.Helper()
	x := newTestIndex(t, 4)
	require.NoError(t, x.Add(
		[][]float32{
			{1, 2, 3, 4},
			{0.5, 0, 0, 0},
			{-1, 1, -1, 1},
		},
		[]metadata.Metadata{
			sectionMeta("built billing pipeline", "experience"),
			sectionMeta("msc thesis", "education"),
			meta("untagged entry"),
		},
	))
	return x
}

func requireSameEntries(t *testing.T, want, got *Index) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		we, _ := want.Entry(uint32(i))
		ge, _ := got.Entry(uint32(i))
		assert.Equal(t, we.Position, ge.Position)
		// Bit-exact vector round-trip.
		assert.Equal(t, we.Vector, ge.Vector)
		assert.Equal(t, we.Meta, ge.Meta)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()

	stores := map[string]blobstore.BlobStore{
		"Memory": blobstore.NewMemoryStore(),
		"Local":  blobstore.NewLocalStore(t.TempDir()),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			x := populatedIndex(t)
			require.NoError(t, x.Save(ctx, store, "idx"))

			loaded := newTestIndex(t, 4)
			require.NoError(t, loaded.Load(ctx, store, "idx"))

			assert.Equal(t, "test-space", loaded.Space())
			requireSameEntries(t, x, loaded)

			// Section bitmaps are rebuilt on load.
			f := loaded.SectionFilter("experience")
			assert.Equal(t, uint64(1), f.Cardinality())
		})
	}
}

func TestSnapshotRoundTripEmpty(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	x := newTestIndex(t, 4)
	require.NoError(t, x.Save(ctx, store, "empty"))

	loaded := newTestIndex(t, 4)
	require.NoError(t, loaded.Load(ctx, store, "empty"))
	assert.Equal(t, 0, loaded.Len())

	results, err := loaded.Search([]float32{1, 0, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSnapshotCompressionVariants(t *testing.T) {
	ctx := context.Background()

	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			x := populatedIndex(t)
			require.NoError(t, x.Save(ctx, store, "idx", func(o *SnapshotOptions) {
				o.Compression = compression
			}))

			loaded := newTestIndex(t, 4)
			require.NoError(t, loaded.Load(ctx, store, "idx"))
			requireSameEntries(t, x, loaded)
		})
	}
}

func TestSnapshotCodecVariants(t *testing.T) {
	ctx := context.Background()

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			x := populatedIndex(t)
			require.NoError(t, x.Save(ctx, store, "idx", func(o *SnapshotOptions) {
				o.Codec = c
			}))

			loaded := newTestIndex(t, 4)
			require.NoError(t, loaded.Load(ctx, store, "idx"))
			requireSameEntries(t, x, loaded)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	x := newTestIndex(t, 4)
	err := x.Load(context.Background(), blobstore.NewMemoryStore(), "nope")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestLoadDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	x := populatedIndex(t) // dimension 4
	require.NoError(t, x.Save(ctx, store, "idx"))

	other, err := New(func(o *Options) { o.Dimension = 8 })
	require.NoError(t, err)
	assert.ErrorIs(t, other.Load(ctx, store, "idx"), ErrFormatMismatch)
}

func TestLoadSpaceMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	x := populatedIndex(t)
	require.NoError(t, x.Save(ctx, store, "idx"))

	other, err := New(func(o *Options) {
		o.Dimension = 4
		o.Space = "another-model"
	})
	require.NoError(t, err)
	assert.ErrorIs(t, other.Load(ctx, store, "idx"), ErrFormatMismatch)
}

func TestLoadInconsistentUnit(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	x := populatedIndex(t)
	require.NoError(t, x.Save(ctx, store, "idx"))

	// Config present but a sibling blob missing: the unit is inconsistent.
	require.NoError(t, store.Delete(ctx, "idx"+SuffixVectors))

	loaded := newTestIndex(t, 4)
	assert.ErrorIs(t, loaded.Load(ctx, store, "idx"), ErrFormatMismatch)
}

func TestLoadCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	x := populatedIndex(t)
	require.NoError(t, x.Save(ctx, store, "idx", func(o *SnapshotOptions) {
		o.Compression = CompressionNone
	}))

	blob, err := store.Open(ctx, "idx"+SuffixVectors)
	require.NoError(t, err)
	data, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	corrupted := append([]byte(nil), data...)
	corrupted[len(corrupted)-1] ^= 0xFF
	require.NoError(t, store.Put(ctx, "idx"+SuffixVectors, corrupted))

	loaded := newTestIndex(t, 4)
	assert.ErrorIs(t, loaded.Load(ctx, store, "idx"), ErrFormatMismatch)
}
