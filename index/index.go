// Package index provides an append-only flat vector index searched by
// cosine similarity.
//
// Every stored vector and every query is L2-normalized, so cosine
// similarity reduces to a plain inner product and a linear scan is exact.
// Entries are identified by their insertion position; positions are stable
// and never reused (there is no deletion).
package index

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/alignvec/distance"
	"github.com/hupe1980/alignvec/metadata"
)

// Entry is an immutable (vector, metadata) pair stored in the index.
type Entry struct {
	// Position is the zero-based insertion ordinal, the entry's only
	// identity key.
	Position uint32

	// Vector is the stored unit-norm vector.
	Vector []float32

	// Meta is the opaque payload supplied at Add time.
	Meta metadata.Metadata
}

// Result is a scored search hit.
type Result struct {
	Entry *Entry

	// Score is the cosine similarity between the query and the entry.
	Score float64
}

// Options contains configuration options for the index.
type Options struct {
	// Dimension is the fixed vector dimensionality. Required, > 0.
	Dimension int

	// Space identifies the embedding space the vectors came from (e.g.
	// the embedding model name). Persisted with snapshots so a reload can
	// detect that an index was built with a different encoder.
	Space string
}

// Index is an append-only flat vector index.
//
// It is not safe for concurrent Add calls; concurrent Search calls against
// an index that is not being mutated are safe.
type Index struct {
	opts     Options
	entries  []Entry
	sections map[string]*roaring.Bitmap // section tag -> entry positions
}

// New creates a new empty index.
func New(optFns ...func(o *Options)) (*Index, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: opts.Dimension}
	}

	return &Index{
		opts:     opts,
		sections: make(map[string]*roaring.Bitmap),
	}, nil
}

// Dimension returns the configured vector dimensionality.
func (x *Index) Dimension() int { return x.opts.Dimension }

// Space returns the configured embedding-space identifier.
func (x *Index) Space() string { return x.opts.Space }

// Len returns the number of stored entries.
func (x *Index) Len() int { return len(x.entries) }

// Entry returns the entry at the given insertion position.
func (x *Index) Entry(position uint32) (*Entry, bool) {
	if int(position) >= len(x.entries) {
		return nil, false
	}
	return &x.entries[position], true
}

// Add appends a batch of entries. Every vector must have the configured
// dimension and len(vectors) must equal len(metas); the batch is validated
// up front, so a failed Add never mutates the index.
//
// Vectors are L2-normalized in place before storage (a no-op up to
// floating-point error for vectors that already have unit norm). A
// zero-norm vector is stored as-is and scores 0 against every query.
func (x *Index) Add(vectors [][]float32, metas []metadata.Metadata) error {
	if len(vectors) != len(metas) {
		return fmt.Errorf("vectors/metadata length mismatch: %d != %d", len(vectors), len(metas))
	}

	for _, v := range vectors {
		if len(v) != x.opts.Dimension {
			return &ErrDimensionMismatch{Expected: x.opts.Dimension, Actual: len(v)}
		}
	}

	for i, v := range vectors {
		distance.NormalizeL2InPlace(v)

		position := uint32(len(x.entries))
		x.entries = append(x.entries, Entry{
			Position: position,
			Vector:   v,
			Meta:     metas[i],
		})

		if section := metas[i].Section(); section != "" {
			bm, ok := x.sections[section]
			if !ok {
				bm = roaring.New()
				x.sections[section] = bm
			}
			bm.Add(position)
		}
	}

	return nil
}

// Search returns up to k entries ordered by descending cosine similarity.
// Exact score ties are broken by ascending insertion position, so repeated
// queries are fully deterministic. k is clamped to the entry count; an
// empty index yields an empty result. The query need not arrive
// normalized.
func (x *Index) Search(query []float32, k int) ([]Result, error) {
	return x.search(query, k, nil)
}

// SearchAboveThreshold runs Search with a candidate pool of topK and keeps
// only hits scoring >= threshold, preserving order.
//
// This is deliberately a filter over a bounded top-k pool, not a full
// threshold scan: an entry outside the topK best can exceed the threshold
// and still be excluded.
func (x *Index) SearchAboveThreshold(query []float32, threshold float64, topK int) ([]Result, error) {
	results, err := x.Search(query, topK)
	if err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, r := range results {
		if r.Score >= threshold {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// SearchFiltered is Search restricted to entries matching the filter.
// A nil filter matches everything.
func (x *Index) SearchFiltered(query []float32, k int, f *Filter) ([]Result, error) {
	return x.search(query, k, f)
}

func (x *Index) search(query []float32, k int, f *Filter) ([]Result, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(query) != x.opts.Dimension {
		return nil, &ErrDimensionMismatch{Expected: x.opts.Dimension, Actual: len(query)}
	}
	if len(x.entries) == 0 {
		return []Result{}, nil
	}

	// Normalize a copy so the caller's slice is untouched. A zero-norm
	// query is scanned as-is and scores 0 everywhere.
	q, ok := distance.NormalizeL2Copy(query)
	if !ok {
		q = query
	}

	results := make([]Result, 0, len(x.entries))
	for i := range x.entries {
		e := &x.entries[i]
		if f != nil && !f.contains(e.Position) {
			continue
		}
		results = append(results, Result{
			Entry: e,
			Score: float64(distance.Dot(q, e.Vector)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Position < results[j].Entry.Position
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}
