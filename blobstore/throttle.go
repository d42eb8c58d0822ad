package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// throttleChunk is the granularity at which Put bandwidth is metered.
// rate.Limiter burst must be able to hold one chunk.
const throttleChunk = 64 * 1024

// ThrottledStore wraps a BlobStore and limits the byte throughput of Put
// calls. Snapshot uploads from a background job can be capped this way so
// they do not starve foreground traffic.
type ThrottledStore struct {
	inner   BlobStore
	limiter *rate.Limiter
}

// NewThrottledStore wraps inner with a Put bandwidth cap of bytesPerSec.
// A non-positive bytesPerSec disables throttling.
func NewThrottledStore(inner BlobStore, bytesPerSec int) *ThrottledStore {
	var limiter *rate.Limiter
	if bytesPerSec > 0 {
		burst := bytesPerSec
		if burst < throttleChunk {
			burst = throttleChunk
		}
		limiter = rate.NewLimiter(rate.Limit(bytesPerSec), burst)
	}
	return &ThrottledStore{inner: inner, limiter: limiter}
}

// Open opens a blob for reading. Reads are not throttled.
func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	return s.inner.Open(ctx, name)
}

// Put writes a blob atomically, waiting on the rate limiter in chunks
// before delegating the write.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if s.limiter != nil {
		for remaining := len(data); remaining > 0; {
			n := remaining
			if n > throttleChunk {
				n = throttleChunk
			}
			if err := s.limiter.WaitN(ctx, n); err != nil {
				return err
			}
			remaining -= n
		}
	}
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List returns all blob names with the given prefix.
func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
