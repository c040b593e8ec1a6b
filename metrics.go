package wordbook

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
//	    insertCounter prometheus.Counter
//	    findHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordInsert(duration time.Duration, err error) {
//	    p.insertCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordInsert is called after each insert.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordFind is called after each lookup. hit reports whether an entry
	// matched.
	RecordFind(hit bool, duration time.Duration)

	// RecordRemove is called after each remove.
	RecordRemove(found bool, duration time.Duration)

	// RecordLoad is called after each load. records and skipped count the
	// accepted and malformed lines.
	RecordLoad(records, skipped int, duration time.Duration, err error)

	// RecordWrite is called after each write.
	RecordWrite(records int, duration time.Duration, err error)

	// RecordMerge is called after the pending buffer is merged into the
	// entry store. entries is the number of pending entries merged.
	RecordMerge(entries int, duration time.Duration)

	// RecordCompact is called after a compaction pass. removed is the number
	// of inactive entries dropped.
	RecordCompact(removed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)         {}
func (NoopMetricsCollector) RecordFind(bool, time.Duration)            {}
func (NoopMetricsCollector) RecordRemove(bool, time.Duration)          {}
func (NoopMetricsCollector) RecordLoad(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordWrite(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordMerge(int, time.Duration)            {}
func (NoopMetricsCollector) RecordCompact(int, time.Duration)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	FindCount        atomic.Int64
	FindHits         atomic.Int64
	FindTotalNanos   atomic.Int64
	RemoveCount      atomic.Int64
	RemoveHits       atomic.Int64
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	LoadRecords      atomic.Int64
	LoadSkipped      atomic.Int64
	WriteCount       atomic.Int64
	WriteErrors      atomic.Int64
	WriteRecords     atomic.Int64
	MergeCount       atomic.Int64
	MergedEntries    atomic.Int64
	CompactCount     atomic.Int64
	CompactedEntries atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(hit bool, duration time.Duration) {
	b.FindCount.Add(1)
	b.FindTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.FindHits.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(found bool, _ time.Duration) {
	b.RemoveCount.Add(1)
	if found {
		b.RemoveHits.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(records, skipped int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadRecords.Add(int64(records))
	b.LoadSkipped.Add(int64(skipped))
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(records int, _ time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteRecords.Add(int64(records))
}

// RecordMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMerge(entries int, _ time.Duration) {
	b.MergeCount.Add(1)
	b.MergedEntries.Add(int64(entries))
}

// RecordCompact implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompact(removed int, _ time.Duration) {
	b.CompactCount.Add(1)
	b.CompactedEntries.Add(int64(removed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:      b.InsertCount.Load(),
		InsertErrors:     b.InsertErrors.Load(),
		InsertAvgNanos:   avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		FindCount:        b.FindCount.Load(),
		FindHits:         b.FindHits.Load(),
		FindAvgNanos:     avg(b.FindTotalNanos.Load(), b.FindCount.Load()),
		RemoveCount:      b.RemoveCount.Load(),
		RemoveHits:       b.RemoveHits.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadRecords:      b.LoadRecords.Load(),
		LoadSkipped:      b.LoadSkipped.Load(),
		WriteCount:       b.WriteCount.Load(),
		WriteErrors:      b.WriteErrors.Load(),
		WriteRecords:     b.WriteRecords.Load(),
		MergeCount:       b.MergeCount.Load(),
		MergedEntries:    b.MergedEntries.Load(),
		CompactCount:     b.CompactCount.Load(),
		CompactedEntries: b.CompactedEntries.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount      int64
	InsertErrors     int64
	InsertAvgNanos   int64
	FindCount        int64
	FindHits         int64
	FindAvgNanos     int64
	RemoveCount      int64
	RemoveHits       int64
	LoadCount        int64
	LoadErrors       int64
	LoadRecords      int64
	LoadSkipped      int64
	WriteCount       int64
	WriteErrors      int64
	WriteRecords     int64
	MergeCount       int64
	MergedEntries    int64
	CompactCount     int64
	CompactedEntries int64
}
