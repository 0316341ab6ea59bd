// Package monitor implements the concurrent measurement engine: the request
// workers, the shared aggregator they feed, and the report loop that drains
// it once per interval.
package monitor

import (
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"httpmon/internal/config"
	"httpmon/internal/output"
	"httpmon/internal/stats"
)

// Cumulative histogram bounds: 1 microsecond to 1 hour, 3 significant figures.
const (
	histMin     = 1
	histMax     = 3600000000
	histSigFigs = 3
)

// Collector receives a copy of every request observation. Implemented by the
// Prometheus exporter; nil when no endpoint is configured.
type Collector interface {
	Observe(latency float64, failed, signal bool)
}

// Monitor owns the run: it spawns the workers, drains the aggregator on every
// tick, prints report lines, and keeps whole-run statistics for the final
// summary.
type Monitor struct {
	cfg config.Config
	out *output.Formatter
	agg *Aggregator

	client    *http.Client
	collector Collector

	// running is the workers' cooperative cancellation flag: written once
	// (false) on shutdown, read by every worker after each request.
	running atomic.Bool
	wg      sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}

	// Whole-run statistics, separate from the per-window aggregator.
	histMu        sync.Mutex
	hist          *hdrhistogram.Histogram
	totalRequests atomic.Int64
	totalErrors   atomic.Int64
	totalSignals  atomic.Int64

	startTime time.Time
	endTime   time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithCollector forwards each observation to c.
func WithCollector(c Collector) Option {
	return func(m *Monitor) {
		m.collector = c
	}
}

// New creates a Monitor for cfg that writes its report lines through out.
// cfg must already be validated.
func New(cfg config.Config, out *output.Formatter, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:    cfg,
		out:    out,
		agg:    NewAggregator(),
		client: newClient(cfg),
		hist:   hdrhistogram.New(histMin, histMax, histSigFigs),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// newClient builds the HTTP client shared by all workers. The client timeout
// covers the whole exchange including the body read. Idle connections are
// sized to the worker count so every worker can keep one alive.
func newClient(cfg config.Config) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency,
		},
	}
}

// Run spawns the workers and blocks in the report loop until a signal arrives
// on sig or Stop is called. The final, partial window is still reported
// before the workers are joined; an in-flight request delays the join by at
// most the request timeout.
func (m *Monitor) Run(sig <-chan os.Signal) {
	m.running.Store(true)
	m.startTime = time.Now()

	for i := 0; i < m.cfg.Concurrency; i++ {
		m.wg.Add(1)
		go m.runWorker()
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	lastReport := epochSeconds(m.startTime)
	for m.running.Load() {
		var got os.Signal
		select {
		case got = <-sig:
			m.running.Store(false)
		case <-m.stopCh:
			m.running.Store(false)
		case <-ticker.C:
		}

		w := m.agg.DrainAndReset()
		now := epochSeconds(time.Now())
		m.report(w, now, lastReport)
		lastReport = now

		if got != nil {
			m.out.Noticef("Got signal %v, cleaning up ...", got)
		}
	}

	m.wg.Wait()
	m.endTime = time.Now()
	m.client.CloseIdleConnections()
}

// Stop requests shutdown as if an interrupt had been received. Safe to call
// more than once and from any goroutine.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// report turns one drained window into a printed line. An interval with zero
// completed requests produces a degenerate all-zero line instead of a fault.
func (m *Monitor) report(w Window, now, prev float64) {
	r := output.Report{Timestamp: now, Errors: w.Errors}

	q, err := stats.Compute(w.Latencies)
	if err != nil {
		if !m.cfg.Quiet {
			m.out.WriteReport(r)
		}
		return
	}

	r.Quartiles = q
	if elapsed := now - prev; elapsed > 0 {
		r.Throughput = int(float64(w.Count()) / elapsed)
	}
	r.SignalRate = int(w.Signals * 100 / uint64(w.Count()))

	if !m.cfg.Quiet {
		m.out.WriteReport(r)
	}
}

// observe feeds the whole-run statistics; the per-window aggregator is
// untouched.
func (m *Monitor) observe(latency float64, failed, signal bool) {
	micros := int64(latency * 1e6)
	if micros < histMin {
		micros = histMin
	}
	if micros > histMax {
		micros = histMax
	}

	m.histMu.Lock()
	_ = m.hist.RecordValue(micros)
	m.histMu.Unlock()

	m.totalRequests.Add(1)
	if failed {
		m.totalErrors.Add(1)
	}
	if signal {
		m.totalSignals.Add(1)
	}

	if m.collector != nil {
		m.collector.Observe(latency, failed, signal)
	}
}

// Summary builds the end-of-run view from the cumulative histogram and
// counters. Meant to be called after Run returns.
func (m *Monitor) Summary() output.Summary {
	end := m.endTime
	if end.IsZero() {
		end = time.Now()
	}
	duration := end.Sub(m.startTime).Seconds()

	total := m.totalRequests.Load()
	errors := m.totalErrors.Load()
	signals := m.totalSignals.Load()

	m.histMu.Lock()
	lat := output.LatencySummary{
		Min:  time.Duration(m.hist.Min()) * time.Microsecond,
		Mean: time.Duration(m.hist.Mean()) * time.Microsecond,
		Max:  time.Duration(m.hist.Max()) * time.Microsecond,
		P50:  time.Duration(m.hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:  time.Duration(m.hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:  time.Duration(m.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:  time.Duration(m.hist.ValueAtQuantile(99)) * time.Microsecond,
	}
	m.histMu.Unlock()

	s := output.Summary{
		URL:           m.cfg.URL,
		Concurrency:   m.cfg.Concurrency,
		Duration:      duration,
		TotalRequests: total,
		Errors:        errors,
		Signals:       signals,
		Latency:       lat,
	}
	if total > 0 {
		s.ErrorRate = float64(errors) / float64(total)
		s.SignalRate = float64(signals) / float64(total)
	}
	if duration > 0 {
		s.RPS = float64(total) / duration
	}
	return s
}

// epochSeconds converts t to the float seconds-since-epoch used in report
// lines.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
