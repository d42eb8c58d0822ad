package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutOpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "index.vec", []byte("payload")))

	blob, err := store.Open(ctx, "index.vec")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(7), blob.Size())

	data, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestLocalStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "a", []byte("old")))
	require.NoError(t, store.Put(ctx, "a", []byte("new")))

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer blob.Close()

	data, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestLocalStorePutLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	require.NoError(t, store.Put(ctx, "a", []byte("x")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name())
}

func TestLocalStoreOpenMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreDeleteAndList(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "index.vec", []byte("v")))
	require.NoError(t, store.Put(ctx, "index.meta", []byte("m")))
	require.NoError(t, store.Put(ctx, "other.config", []byte("c")))

	names, err := store.List(ctx, "index.")
	require.NoError(t, err)
	assert.Equal(t, []string{"index.meta", "index.vec"}, names)

	require.NoError(t, store.Delete(ctx, "index.vec"))
	require.NoError(t, store.Delete(ctx, "index.vec")) // idempotent

	names, err = store.List(ctx, "index.")
	require.NoError(t, err)
	assert.Equal(t, []string{"index.meta"}, names)
}

func TestLocalStoreListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
