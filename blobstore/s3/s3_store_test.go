package s3

import (
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/alignvec/blobstore"
)

// Integration test against a real bucket. Set ALIGNVEC_TEST_S3_BUCKET and
// AWS credentials to run it.
func TestStoreIntegration(t *testing.T) {
	bucket := os.Getenv("ALIGNVEC_TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("ALIGNVEC_TEST_S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	store := NewStore(s3.NewFromConfig(cfg), bucket, "alignvec-test")
	defer func() { _ = store.Delete(ctx, "it.blob") }()

	require.NoError(t, store.Put(ctx, "it.blob", []byte("integration")))

	blob, err := store.Open(ctx, "it.blob")
	require.NoError(t, err)
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("integration"), data)

	names, err := store.List(ctx, "it.")
	require.NoError(t, err)
	assert.Contains(t, names, "it.blob")

	require.NoError(t, store.Delete(ctx, "it.blob"))
	_, err = store.Open(ctx, "it.blob")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
