package index

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/alignvec/blobstore"
	"github.com/hupe1980/alignvec/codec"
	"github.com/hupe1980/alignvec/metadata"
)

// A snapshot is three co-located blobs keyed by a common stem:
//
//	<stem>.vec    raw vector data (binary, bit-exact float32)
//	<stem>.meta   metadata list, same order as vectors (codec-encoded)
//	<stem>.config JSON config record describing the other two
//
// The config is written last: a reader that finds it can rely on the vec
// and meta blobs of the same stem being complete. Blob stores with atomic
// Put (local tmp+rename, object stores) make each artifact all-or-nothing;
// overwriting a live stem in place is not safe with concurrent readers —
// use fresh stems plus a commit pointer (see blobstore/s3.CommitStore).
const (
	SuffixVectors  = ".vec"
	SuffixMetadata = ".meta"
	SuffixConfig   = ".config"

	snapshotFormatVersion = uint16(1)
)

var (
	vecMagic  = [4]byte{'A', 'V', 'V', '1'}
	metaMagic = [4]byte{'A', 'V', 'M', '1'}
)

const blobHeaderLen = 4 + 2 + 8 // magic + version + rawLen

// SnapshotOptions configures Save.
type SnapshotOptions struct {
	// Codec encodes the metadata list. Defaults to codec.Default.
	Codec codec.Codec

	// Compression is applied to both payloads. Defaults to zstd.
	Compression Compression
}

type configRecord struct {
	Version      uint16 `json:"version"`
	Space        string `json:"space"`
	Dimension    int    `json:"dimension"`
	Count        int    `json:"count"`
	Codec        string `json:"codec"`
	Compression  string `json:"compression"`
	VecChecksum  uint32 `json:"vec_checksum"`
	MetaChecksum uint32 `json:"meta_checksum"`
}

// Save persists the index to the blob store under the given stem.
func (x *Index) Save(ctx context.Context, store blobstore.BlobStore, stem string, optFns ...func(o *SnapshotOptions)) error {
	opts := SnapshotOptions{
		Codec:       codec.Default,
		Compression: CompressionZstd,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	rawVec := x.encodeVectors()

	metas := make([]metadata.Metadata, len(x.entries))
	for i := range x.entries {
		metas[i] = x.entries[i].Meta
	}
	rawMeta, err := opts.Codec.Marshal(metas)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	vecBlob, err := wrapBlob(vecMagic, rawVec, opts.Compression)
	if err != nil {
		return err
	}
	metaBlob, err := wrapBlob(metaMagic, rawMeta, opts.Compression)
	if err != nil {
		return err
	}

	cfg := configRecord{
		Version:      snapshotFormatVersion,
		Space:        x.opts.Space,
		Dimension:    x.opts.Dimension,
		Count:        len(x.entries),
		Codec:        opts.Codec.Name(),
		Compression:  opts.Compression.String(),
		VecChecksum:  crc32.ChecksumIEEE(rawVec),
		MetaChecksum: crc32.ChecksumIEEE(rawMeta),
	}
	cfgBlob, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	// Config last: its presence marks the snapshot complete.
	if err := store.Put(ctx, stem+SuffixVectors, vecBlob); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	if err := store.Put(ctx, stem+SuffixMetadata, metaBlob); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := store.Put(ctx, stem+SuffixConfig, cfgBlob); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Open creates an index from the snapshot stored under stem, adopting the
// persisted dimension and embedding space.
func Open(ctx context.Context, store blobstore.BlobStore, stem string) (*Index, error) {
	cfgData, err := readBlob(ctx, store, stem+SuffixConfig)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, stem)
		}
		return nil, err
	}

	var cfg configRecord
	if err := json.Unmarshal(cfgData, &cfg); err != nil {
		return nil, fmt.Errorf("%w: bad config: %v", ErrFormatMismatch, err)
	}

	x, err := New(func(o *Options) {
		o.Dimension = cfg.Dimension
		o.Space = cfg.Space
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormatMismatch, err)
	}
	if err := x.Load(ctx, store, stem); err != nil {
		return nil, err
	}
	return x, nil
}

// Load replaces the index contents with the snapshot stored under stem.
//
// It returns ErrStoreNotFound when no snapshot config exists, and
// ErrFormatMismatch when the snapshot disagrees with the configured
// dimension or embedding space, or is internally inconsistent.
func (x *Index) Load(ctx context.Context, store blobstore.BlobStore, stem string) error {
	cfgData, err := readBlob(ctx, store, stem+SuffixConfig)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrStoreNotFound, stem)
		}
		return err
	}

	var cfg configRecord
	if err := json.Unmarshal(cfgData, &cfg); err != nil {
		return fmt.Errorf("%w: bad config: %v", ErrFormatMismatch, err)
	}
	if cfg.Version != snapshotFormatVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", ErrFormatMismatch, cfg.Version)
	}
	if cfg.Dimension != x.opts.Dimension {
		return fmt.Errorf("%w: dimension %d, index configured with %d", ErrFormatMismatch, cfg.Dimension, x.opts.Dimension)
	}
	if x.opts.Space != "" && cfg.Space != "" && cfg.Space != x.opts.Space {
		return fmt.Errorf("%w: embedding space %q, index configured with %q", ErrFormatMismatch, cfg.Space, x.opts.Space)
	}

	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return fmt.Errorf("%w: unknown codec %q", ErrFormatMismatch, cfg.Codec)
	}
	compression, ok := compressionByName(cfg.Compression)
	if !ok {
		return fmt.Errorf("%w: unknown compression %q", ErrFormatMismatch, cfg.Compression)
	}

	rawVec, err := x.readSection(ctx, store, stem+SuffixVectors, vecMagic, compression, cfg.VecChecksum)
	if err != nil {
		return err
	}
	rawMeta, err := x.readSection(ctx, store, stem+SuffixMetadata, metaMagic, compression, cfg.MetaChecksum)
	if err != nil {
		return err
	}

	if len(rawVec) != cfg.Count*x.opts.Dimension*4 {
		return fmt.Errorf("%w: vector data holds %d bytes, config declares %d entries", ErrFormatMismatch, len(rawVec), cfg.Count)
	}

	var metas []metadata.Metadata
	if err := c.Unmarshal(rawMeta, &metas); err != nil {
		return fmt.Errorf("%w: bad metadata: %v", ErrFormatMismatch, err)
	}
	if len(metas) != cfg.Count {
		return fmt.Errorf("%w: %d metadata entries, config declares %d", ErrFormatMismatch, len(metas), cfg.Count)
	}

	x.rebuild(rawVec, metas)

	if x.opts.Space == "" {
		x.opts.Space = cfg.Space
	}
	return nil
}

// rebuild replaces entries and section bitmaps from raw snapshot payloads.
// Stored vectors were normalized before Save; the bytes round-trip exactly,
// so no re-normalization happens here.
func (x *Index) rebuild(rawVec []byte, metas []metadata.Metadata) {
	dim := x.opts.Dimension

	x.entries = make([]Entry, len(metas))
	x.sections = make(map[string]*roaring.Bitmap)

	off := 0
	for i := range metas {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(rawVec[off:]))
			off += 4
		}

		position := uint32(i)
		x.entries[i] = Entry{
			Position: position,
			Vector:   vec,
			Meta:     metas[i],
		}

		if section := metas[i].Section(); section != "" {
			bm, ok := x.sections[section]
			if !ok {
				bm = roaring.New()
				x.sections[section] = bm
			}
			bm.Add(position)
		}
	}
}

func (x *Index) encodeVectors() []byte {
	dim := x.opts.Dimension
	out := make([]byte, len(x.entries)*dim*4)
	off := 0
	for i := range x.entries {
		for _, v := range x.entries[i].Vector {
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
			off += 4
		}
	}
	return out
}

func wrapBlob(magic [4]byte, raw []byte, compression Compression) ([]byte, error) {
	payload, err := compress(raw, compression)
	if err != nil {
		return nil, err
	}

	out := make([]byte, blobHeaderLen+len(payload))
	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint16(out[4:6], snapshotFormatVersion)
	binary.LittleEndian.PutUint64(out[6:14], uint64(len(raw)))
	copy(out[blobHeaderLen:], payload)
	return out, nil
}

func (x *Index) readSection(ctx context.Context, store blobstore.BlobStore, name string, magic [4]byte, compression Compression, checksum uint32) ([]byte, error) {
	data, err := readBlob(ctx, store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			// Config exists but a sibling blob is gone: the snapshot unit
			// is inconsistent, not merely absent.
			return nil, fmt.Errorf("%w: missing %s", ErrFormatMismatch, name)
		}
		return nil, err
	}

	if len(data) < blobHeaderLen {
		return nil, fmt.Errorf("%w: %s truncated", ErrFormatMismatch, name)
	}
	if [4]byte(data[0:4]) != magic {
		return nil, fmt.Errorf("%w: %s has wrong magic", ErrFormatMismatch, name)
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != snapshotFormatVersion {
		return nil, fmt.Errorf("%w: %s has unsupported version %d", ErrFormatMismatch, name, v)
	}
	rawLen := binary.LittleEndian.Uint64(data[6:14])

	raw, err := decompress(data[blobHeaderLen:], compression, rawLen)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %v", ErrFormatMismatch, name, err)
	}
	if uint64(len(raw)) != rawLen {
		return nil, fmt.Errorf("%w: %s declares %d raw bytes, got %d", ErrFormatMismatch, name, rawLen, len(raw))
	}
	if crc32.ChecksumIEEE(raw) != checksum {
		return nil, fmt.Errorf("%w: %s checksum mismatch", ErrFormatMismatch, name)
	}
	return raw, nil
}

func readBlob(ctx context.Context, store blobstore.BlobStore, name string) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}
	// Copy out: mappable blobs invalidate their bytes on Close.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
