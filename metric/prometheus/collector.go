// Package prometheus exports session metrics to Prometheus.
//
// Collector satisfies editkit.MetricsCollector:
//
//	reg := prom.NewRegistry()
//	mc := prometheus.NewCollector(reg)
//	s, err := editkit.Open(ctx, "notes.txt", editkit.WithMetricsCollector(mc))
package prometheus

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Collector records operation latency and byte counts.
type Collector struct {
	opLatency *prom.HistogramVec
	ops       *prom.CounterVec
	bytes     *prom.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
// A nil reg uses prom.DefaultRegisterer.
func NewCollector(reg prom.Registerer) *Collector {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "editkit_operation_latency_seconds",
			Help:    "Latency of session operations",
			Buckets: prom.DefBuckets,
		}, []string{"op", "status"}),
		ops: prom.NewCounterVec(prom.CounterOpts{
			Name: "editkit_operations_total",
			Help: "Total session operations",
		}, []string{"op", "status"}),
		bytes: prom.NewCounterVec(prom.CounterOpts{
			Name: "editkit_bytes_total",
			Help: "Total bytes written, saved and uploaded",
		}, []string{"op"}),
	}

	reg.MustRegister(c.opLatency, c.ops, c.bytes)
	return c
}

func (c *Collector) record(op string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}

// RecordOpen records a session open.
func (c *Collector) RecordOpen(d time.Duration, err error) {
	c.record("open", d, err)
}

// RecordWrite records a line write.
func (c *Collector) RecordWrite(n int, d time.Duration, err error) {
	c.record("write", d, err)
	if err == nil {
		c.bytes.WithLabelValues("write").Add(float64(n))
	}
}

// RecordSave records a save.
func (c *Collector) RecordSave(n int64, d time.Duration, err error) {
	c.record("save", d, err)
	if err == nil {
		c.bytes.WithLabelValues("save").Add(float64(n))
	}
}

// RecordUpload records an upload.
func (c *Collector) RecordUpload(n int64, d time.Duration, err error) {
	c.record("upload", d, err)
	if err == nil {
		c.bytes.WithLabelValues("upload").Add(float64(n))
	}
}
