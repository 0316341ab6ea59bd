// Package promexp exposes httpmon's request counters on an optional
// Prometheus /metrics endpoint. The exporter observes a copy of every request
// outcome and never touches the monitor's own aggregation state.
package promexp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter holds the metric set and the HTTP server publishing it.
type Exporter struct {
	requests *prometheus.CounterVec
	signals  prometheus.Counter
	duration prometheus.Histogram

	registry *prometheus.Registry
	server   *http.Server
}

// New creates an Exporter listening on addr once Start is called.
func New(addr string) *Exporter {
	e := &Exporter{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpmon_requests_total",
				Help: "Number of requests issued, by result.",
			},
			[]string{"result"}),
		signals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "httpmon_signals_total",
			Help: "Number of responses whose body carried the marker byte.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "httpmon_request_duration_seconds",
			Help:    "Duration of issued requests.",
			Buckets: prometheus.DefBuckets,
		}),
		registry: prometheus.NewRegistry(),
	}
	e.registry.MustRegister(e.requests, e.signals, e.duration)

	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	e.server = &http.Server{Addr: addr, Handler: mux}

	return e
}

// Handler returns the /metrics handler, independent of the built-in server.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Start serves the metrics endpoint in the background until Shutdown. A
// listen failure is reported on stderr but never stops the monitor itself.
func (e *Exporter) Start() {
	go func() {
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "metrics listener: %v\n", err)
		}
	}()
}

// Observe records one request outcome.
func (e *Exporter) Observe(latency float64, failed, signal bool) {
	result := "ok"
	if failed {
		result = "error"
	}
	e.requests.WithLabelValues(result).Inc()
	if signal {
		e.signals.Inc()
	}
	e.duration.Observe(latency)
}

// Shutdown stops the metrics server gracefully.
func (e *Exporter) Shutdown(ctx context.Context) error {
	return e.server.Shutdown(ctx)
}
