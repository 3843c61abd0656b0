// Package metrics exposes extraction counts as prometheus metrics.
//
// Extraction is a batch job, so instead of serving /metrics the
// registry is written to a file for the node exporter's textfile
// collector after each run.
package metrics

import (
	"time"

	"github.com/dustin/go-wikiredirect"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one extraction run.
type Metrics struct {
	Registry *prometheus.Registry

	LinesRead       prometheus.Gauge
	RedirectsTotal  *prometheus.GaugeVec
	MalformedTotal  prometheus.Counter
	DurationSeconds prometheus.Gauge
	LastSuccessTime prometheus.Gauge
	LinesPerSecond  prometheus.Gauge
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		LinesRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikiredirect_lines_read",
			Help: "Dump lines read by the current or last extraction.",
		}),
		RedirectsTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wikiredirect_redirects",
			Help: "Redirect pairs seen by the current or last extraction, by outcome (accepted, discarded).",
		}, []string{"outcome"}),
		MalformedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wikiredirect_malformed_records_total",
			Help: "Redirect candidates dropped because their title could not be cleaned.",
		}),
		DurationSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikiredirect_extraction_duration_seconds",
			Help: "Wall time of the last extraction.",
		}),
		LastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikiredirect_last_success_timestamp_seconds",
			Help: "Unix time the last extraction finished successfully.",
		}),
		LinesPerSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikiredirect_lines_per_second",
			Help: "Dump lines read per second by the last extraction.",
		}),
	}
	m.Registry.MustRegister(
		m.LinesRead,
		m.RedirectsTotal,
		m.MalformedTotal,
		m.DurationSeconds,
		m.LastSuccessTime,
		m.LinesPerSecond,
	)
	return m
}

func (m *Metrics) observe(s wikiredirect.Stats) {
	m.LinesRead.Set(float64(s.Lines))
	m.RedirectsTotal.WithLabelValues("accepted").Set(float64(s.Accepted))
	m.RedirectsTotal.WithLabelValues("discarded").Set(float64(s.Discarded))
	m.DurationSeconds.Set(s.Elapsed.Seconds())
	if secs := s.Elapsed.Seconds(); secs > 0 {
		m.LinesPerSecond.Set(float64(s.Lines) / secs)
	}
}

// Reporter wraps next, recording everything it is told.
func (m *Metrics) Reporter(next wikiredirect.Reporter) wikiredirect.Reporter {
	if next == nil {
		next = wikiredirect.NopReporter{}
	}
	return &reporter{m: m, next: next, now: time.Now}
}

// WriteTextfile writes the current values in the text exposition
// format, replacing path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

type reporter struct {
	m    *Metrics
	next wikiredirect.Reporter
	now  func() time.Time
}

func (r *reporter) Progress(s wikiredirect.Stats) {
	r.m.observe(s)
	r.next.Progress(s)
}

func (r *reporter) Malformed(title, line string, err error) {
	r.m.MalformedTotal.Inc()
	r.next.Malformed(title, line, err)
}

func (r *reporter) Done(s wikiredirect.Stats) {
	r.m.observe(s)
	r.m.LastSuccessTime.Set(float64(r.now().Unix()))
	r.next.Done(s)
}
