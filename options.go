package alignvec

import (
	"log/slog"

	"github.com/hupe1980/alignvec/align"
	"github.com/hupe1980/alignvec/codec"
	"github.com/hupe1980/alignvec/index"
)

type options struct {
	codec            codec.Codec
	compression      index.Compression
	space            string
	metricsCollector MetricsCollector
	logger           *Logger
	engineOptions    []func(o *align.Options)
}

// Option configures AlignVec constructor/load behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. codec-specific constructor variants).
type Option func(*options)

// WithCodec configures the codec used for snapshot metadata sections.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the compression applied to snapshot payloads.
// Defaults to zstd.
func WithCompression(c index.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithSpace labels the embedding space the corpus vectors come from
// (e.g. the embedding model name). Loading a snapshot written under a
// different space label fails rather than silently mixing embeddings.
func WithSpace(space string) Option {
	return func(o *options) {
		o.space = space
	}
}

// WithEngine configures the classification engine (thresholds, evidence
// pool size, parallelism).
//
// Example:
//
//	av, _ := alignvec.New(384, alignvec.WithEngine(func(o *align.Options) {
//	    o.KeepThreshold = 0.8
//	    o.EvidencePool = 10
//	}))
func WithEngine(optFns ...func(o *align.Options)) Option {
	return func(o *options) {
		o.engineOptions = append(o.engineOptions, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &alignvec.BasicMetricsCollector{}
//	av, _ := alignvec.New(384, alignvec.WithMetricsCollector(metrics))
//	// ... use av ...
//	stats := metrics.GetStats()
//	fmt.Printf("Classifications: %d, Avg latency: %dns\n", stats.ClassifyCount, stats.ClassifyAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := alignvec.NewJSONLogger(slog.LevelInfo)
//	av, _ := alignvec.New(384, alignvec.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      index.CompressionZstd,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
