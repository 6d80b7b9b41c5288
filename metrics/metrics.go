// Package metrics exports quicktrace reports as Prometheus metrics.
//
//	sink := metrics.New(prometheus.DefaultRegisterer, "myapp")
//	tracer.OnReport(sink.Observe)
package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/LeDuyViet/quicktrace"
)

// Sink records emitted reports into Prometheus collectors.
type Sink struct {
	traceDuration *prometheus.HistogramVec
	spanDuration  *prometheus.HistogramVec
	spans         *prometheus.CounterVec
	reports       *prometheus.CounterVec
}

// New creates a sink whose collectors are registered with reg under
// namespace. Like promauto, it panics if registration fails; a nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer, namespace string) *Sink {
	factory := promauto.With(reg)
	buckets := DurationBuckets()

	return &Sink{
		traceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trace_duration_seconds",
				Help:      "Total duration of reported traces by tracer name",
				Buckets:   buckets,
			},
			[]string{"tracer"},
		),
		spanDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "span_duration_seconds",
				Help:      "Duration of reported spans by tracer name and duration bucket",
				Buckets:   buckets,
			},
			[]string{"tracer", "bucket"},
		),
		spans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "spans_total",
				Help:      "Total reported spans by tracer name and duration bucket",
			},
			[]string{"tracer", "bucket"},
		),
		reports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Total emitted reports by tracer name",
			},
			[]string{"tracer"},
		),
	}
}

// Observe records r. It has the quicktrace.ReportHandler signature. Every
// span of the report is recorded, regardless of display filters.
func (s *Sink) Observe(r *quicktrace.Report) {
	if r == nil {
		return
	}

	s.reports.WithLabelValues(r.Name).Inc()
	s.traceDuration.WithLabelValues(r.Name).Observe(r.Total.Seconds())

	for _, m := range r.Measurements {
		bucket := quicktrace.ClassifyDuration(m.Elapsed).String()
		s.spans.WithLabelValues(r.Name, bucket).Inc()
		s.spanDuration.WithLabelValues(r.Name, bucket).Observe(m.Elapsed.Seconds())
	}
}

// DurationBuckets returns histogram bucket bounds in seconds matching the
// duration classification thresholds, in increasing order.
func DurationBuckets() []float64 {
	rules := quicktrace.DurationRules()
	buckets := make([]float64, 0, len(rules))
	for _, rule := range rules {
		if rule.Threshold > 0 {
			buckets = append(buckets, rule.Threshold.Seconds())
		}
	}
	slices.Sort(buckets)
	return buckets
}
