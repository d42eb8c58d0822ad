package alignvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    addCounter        prometheus.Counter
//	    classifyHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAdd(count int, duration time.Duration, err error) {
//	    p.addCounter.Add(float64(count))
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordAdd is called after each corpus add operation.
	// count is the number of entries attempted, duration is the total
	// time taken, err is nil if successful.
	RecordAdd(count int, duration time.Duration, err error)

	// RecordSearch is called after each search operation.
	// k is the number of neighbors requested, duration is the time taken,
	// err is nil if successful.
	RecordSearch(k int, duration time.Duration, err error)

	// RecordClassify is called after each single-candidate classification.
	RecordClassify(duration time.Duration, err error)

	// RecordBatchClassify is called after each batch classification.
	// count is the number of candidates attempted.
	RecordBatchClassify(count int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save.
	RecordSnapshot(duration time.Duration, err error)

	// RecordLoad is called after each snapshot load.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordClassify(time.Duration, error)           {}
func (NoopMetricsCollector) RecordBatchClassify(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)           {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount           atomic.Int64
	AddEntries         atomic.Int64
	AddErrors          atomic.Int64
	SearchCount        atomic.Int64
	SearchErrors       atomic.Int64
	SearchTotalNanos   atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
	BatchCount         atomic.Int64
	BatchCandidates    atomic.Int64
	BatchErrors        atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(count int, duration time.Duration, err error) {
	b.AddCount.Add(1)
	b.AddEntries.Add(int64(count))
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// RecordBatchClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchClassify(count int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchCandidates.Add(int64(count))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:          b.AddCount.Load(),
		AddEntries:        b.AddEntries.Load(),
		AddErrors:         b.AddErrors.Load(),
		SearchCount:       b.SearchCount.Load(),
		SearchErrors:      b.SearchErrors.Load(),
		SearchAvgNanos:    avgNanos(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		ClassifyCount:     b.ClassifyCount.Load(),
		ClassifyErrors:    b.ClassifyErrors.Load(),
		ClassifyAvgNanos:  avgNanos(b.ClassifyTotalNanos.Load(), b.ClassifyCount.Load()),
		BatchCount:        b.BatchCount.Load(),
		BatchCandidates:   b.BatchCandidates.Load(),
		BatchErrors:       b.BatchErrors.Load(),
		SnapshotCount:     b.SnapshotCount.Load(),
		SnapshotErrors:    b.SnapshotErrors.Load(),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount         int64
	AddEntries       int64
	AddErrors        int64
	SearchCount      int64
	SearchErrors     int64
	SearchAvgNanos   int64
	ClassifyCount    int64
	ClassifyErrors   int64
	ClassifyAvgNanos int64
	BatchCount       int64
	BatchCandidates  int64
	BatchErrors      int64
	SnapshotCount    int64
	SnapshotErrors   int64
	LoadCount        int64
	LoadErrors       int64
}
