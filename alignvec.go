package alignvec

import (
	"context"
	"time"

	"github.com/hupe1980/alignvec/align"
	"github.com/hupe1980/alignvec/blobstore"
	"github.com/hupe1980/alignvec/index"
	"github.com/hupe1980/alignvec/metadata"
)

// AlignVec pairs a cosine-similarity vector index with the alignment
// classification engine.
//
// Corpus mutation (Add, Load) is not safe concurrently with other calls;
// classification and search against a settled corpus are safe from
// multiple goroutines.
type AlignVec struct {
	idx     *index.Index
	engine  *align.Engine
	opts    options
	metrics MetricsCollector
	logger  *Logger
}

// New creates an empty AlignVec for vectors of the given dimension.
func New(dimension int, optFns ...Option) (*AlignVec, error) {
	opts := applyOptions(optFns)

	idx, err := index.New(func(o *index.Options) {
		o.Dimension = dimension
		o.Space = opts.space
	})
	if err != nil {
		return nil, translateError(err)
	}

	return assemble(idx, opts)
}

// Open loads a snapshot written by Save, adopting the persisted dimension
// and embedding space. It returns ErrNotFound if no snapshot exists under
// the given stem.
func Open(ctx context.Context, store blobstore.BlobStore, stem string, optFns ...Option) (*AlignVec, error) {
	start := time.Now()
	opts := applyOptions(optFns)

	idx, err := index.Open(ctx, store, stem)
	err = translateError(err)

	opts.metricsCollector.RecordLoad(time.Since(start), err)
	if err != nil {
		opts.logger.LogLoad(ctx, stem, 0, err)
		return nil, err
	}
	opts.logger.LogLoad(ctx, stem, idx.Len(), nil)

	return assemble(idx, opts)
}

func assemble(idx *index.Index, opts options) (*AlignVec, error) {
	engine, err := align.New(idx, opts.engineOptions...)
	if err != nil {
		return nil, translateError(err)
	}

	return &AlignVec{
		idx:     idx,
		engine:  engine,
		opts:    opts,
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}, nil
}

// Dimension returns the configured vector dimensionality.
func (av *AlignVec) Dimension() int { return av.idx.Dimension() }

// Len returns the number of corpus entries.
func (av *AlignVec) Len() int { return av.idx.Len() }

// Sections returns the distinct section tags present in the corpus.
func (av *AlignVec) Sections() []string { return av.idx.Sections() }

// Add appends a batch of corpus entries. The batch is validated up front;
// a failed Add never mutates the corpus.
func (av *AlignVec) Add(ctx context.Context, vectors [][]float32, metas []metadata.Metadata) error {
	start := time.Now()
	err := translateError(av.idx.Add(vectors, metas))
	av.metrics.RecordAdd(len(vectors), time.Since(start), err)
	av.logger.LogAdd(ctx, len(vectors), av.idx.Dimension(), err)
	return err
}

// Search returns the k nearest corpus entries to query by cosine
// similarity, best first.
func (av *AlignVec) Search(ctx context.Context, query []float32, k int) ([]index.Result, error) {
	start := time.Now()
	results, err := av.idx.Search(query, k)
	err = translateError(err)
	av.metrics.RecordSearch(k, time.Since(start), err)
	av.logger.LogSearch(ctx, k, len(results), err)
	return results, err
}

// SearchSections restricts Search to entries tagged with any of the given
// sections.
func (av *AlignVec) SearchSections(ctx context.Context, query []float32, k int, sections ...string) ([]index.Result, error) {
	start := time.Now()
	results, err := av.idx.SearchFiltered(query, k, av.idx.SectionFilter(sections...))
	err = translateError(err)
	av.metrics.RecordSearch(k, time.Since(start), err)
	av.logger.LogSearch(ctx, k, len(results), err)
	return results, err
}

// SetTarget sets the target description candidates are classified against.
// It replaces any previous target.
func (av *AlignVec) SetTarget(text string, vector []float32) {
	av.engine.SetTarget(text, vector)
}

// Classify scores a single candidate against the target and corpus.
func (av *AlignVec) Classify(ctx context.Context, candidate align.Candidate, hints *align.Hints) (*align.Analysis, error) {
	start := time.Now()
	analysis, err := av.engine.Classify(candidate, hints)
	err = translateError(err)
	av.metrics.RecordClassify(time.Since(start), err)
	if err != nil {
		av.logger.LogClassify(ctx, "", err)
		return nil, err
	}
	av.logger.LogClassify(ctx, analysis.Decision.String(), nil)
	return analysis, nil
}

// ClassifyAll classifies candidates concurrently, returning analyses in
// input order. The same hints apply to every candidate.
func (av *AlignVec) ClassifyAll(ctx context.Context, candidates []align.Candidate, hints *align.Hints) ([]*align.Analysis, error) {
	start := time.Now()
	analyses, err := av.engine.ClassifyAll(ctx, candidates, hints)
	err = translateError(err)
	av.metrics.RecordBatchClassify(len(candidates), time.Since(start), err)
	av.logger.LogBatchClassify(ctx, len(candidates), err)
	return analyses, err
}

// AggregateScore folds a set of analyses into a single 0-100 fit score.
func (av *AlignVec) AggregateScore(analyses []*align.Analysis) float64 {
	return av.engine.AggregateScore(analyses)
}

// Save persists the corpus to the blob store under the given stem, using
// the configured codec and compression.
func (av *AlignVec) Save(ctx context.Context, store blobstore.BlobStore, stem string) error {
	start := time.Now()
	err := translateError(av.idx.Save(ctx, store, stem, func(o *index.SnapshotOptions) {
		o.Codec = av.opts.codec
		o.Compression = av.opts.compression
	}))
	av.metrics.RecordSnapshot(time.Since(start), err)
	av.logger.LogSnapshot(ctx, stem, err)
	return err
}

// Load replaces the corpus with the snapshot stored under stem. The
// snapshot must match the configured dimension and embedding space.
func (av *AlignVec) Load(ctx context.Context, store blobstore.BlobStore, stem string) error {
	start := time.Now()
	err := translateError(av.idx.Load(ctx, store, stem))
	av.metrics.RecordLoad(time.Since(start), err)
	av.logger.LogLoad(ctx, stem, av.idx.Len(), err)
	return err
}
