package editkit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the metric/prometheus package).
type MetricsCollector interface {
	// RecordOpen is called after each Open.
	RecordOpen(duration time.Duration, err error)

	// RecordWrite is called after each WriteLine with the encoded line size.
	RecordWrite(bytes int, duration time.Duration, err error)

	// RecordSave is called after each Save with the number of bytes committed.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordUpload is called after each Upload with the declared length.
	RecordUpload(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)          {}
func (NoopMetricsCollector) RecordWrite(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error)   {}
func (NoopMetricsCollector) RecordUpload(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount        atomic.Int64
	OpenErrors       atomic.Int64
	WriteCount       atomic.Int64
	WriteErrors      atomic.Int64
	WriteBytes       atomic.Int64
	SaveCount        atomic.Int64
	SaveErrors       atomic.Int64
	SaveBytes        atomic.Int64
	SaveTotalNanos   atomic.Int64
	UploadCount      atomic.Int64
	UploadErrors     atomic.Int64
	UploadBytes      atomic.Int64
	UploadTotalNanos atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(_ time.Duration, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(bytes int, _ time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteBytes.Add(int64(bytes))
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// RecordUpload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpload(bytes int64, duration time.Duration, err error) {
	b.UploadCount.Add(1)
	b.UploadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.UploadErrors.Add(1)
		return
	}
	b.UploadBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:      b.OpenCount.Load(),
		OpenErrors:     b.OpenErrors.Load(),
		WriteCount:     b.WriteCount.Load(),
		WriteErrors:    b.WriteErrors.Load(),
		WriteBytes:     b.WriteBytes.Load(),
		SaveCount:      b.SaveCount.Load(),
		SaveErrors:     b.SaveErrors.Load(),
		SaveBytes:      b.SaveBytes.Load(),
		SaveAvgNanos:   avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		UploadCount:    b.UploadCount.Load(),
		UploadErrors:   b.UploadErrors.Load(),
		UploadBytes:    b.UploadBytes.Load(),
		UploadAvgNanos: avg(b.UploadTotalNanos.Load(), b.UploadCount.Load()),
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
	OpenCount      int64
	OpenErrors     int64
	WriteCount     int64
	WriteErrors    int64
	WriteBytes     int64
	SaveCount      int64
	SaveErrors     int64
	SaveBytes      int64
	SaveAvgNanos   int64
	UploadCount    int64
	UploadErrors   int64
	UploadBytes    int64
	UploadAvgNanos int64
}
