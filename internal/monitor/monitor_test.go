// Integration tests for the monitor against local httptest servers.
package monitor

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpmon/internal/config"
	"httpmon/internal/output"
)

// Fields are zero-padded to their minimum width but widen when a value
// overflows it (%04d semantics).
var reportLineRe = regexp.MustCompile(`^\[\d+\.\d{6}\] latency=\d{4,}:\d{4,}:\d{4,}:\d{4,}:\d{4,}ms throughput=\d{4,}rps rr=\d{2,}% errors=\d{4,}$`)

// Test server types for different target behaviors.
type serverType int

const (
	serverClean serverType = iota
	serverMarker
	serverError
	serverSlow
)

func createTestServer(st serverType) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch st {
		case serverClean:
			_, _ = w.Write([]byte("plain response body"))

		case serverMarker:
			_, _ = w.Write([]byte{'o', 'k', ' ', markerByte, ' ', 'd', 'o', 'n', 'e'})

		case serverError:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))

		case serverSlow:
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("slow response"))
		}
	}))
}

func testConfig(url string) config.Config {
	cfg := config.Default()
	cfg.URL = url
	cfg.Concurrency = 2
	cfg.Timeout = 2 * time.Second
	cfg.Interval = 50 * time.Millisecond
	return cfg
}

// runFor runs the monitor for roughly d, then stops it and waits for Run to
// return.
func runFor(t *testing.T, m *Monitor, d time.Duration) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		m.Run(nil)
		close(done)
	}()

	time.Sleep(d)
	m.Stop()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("monitor did not shut down")
	}
}

func TestMonitor_FailingTargetCountsErrors(t *testing.T) {
	srv := createTestServer(serverError)
	defer srv.Close()

	var buf bytes.Buffer
	m := New(testConfig(srv.URL), output.NewFormatter(&buf, false))

	runFor(t, m, 200*time.Millisecond)

	s := m.Summary()
	require.Greater(t, s.TotalRequests, int64(0), "no requests completed")
	assert.Equal(t, s.TotalRequests, s.Errors, "every request should have errored")
	assert.Zero(t, s.Signals, "error bodies are never scanned for the marker")
	assert.Equal(t, 1.0, s.ErrorRate)
}

func TestMonitor_MarkerBodySignals(t *testing.T) {
	srv := createTestServer(serverMarker)
	defer srv.Close()

	var buf bytes.Buffer
	m := New(testConfig(srv.URL), output.NewFormatter(&buf, false))

	runFor(t, m, 200*time.Millisecond)

	s := m.Summary()
	require.Greater(t, s.TotalRequests, int64(0))
	assert.Equal(t, s.TotalRequests, s.Signals, "every response carried the marker")
	assert.Zero(t, s.Errors)
	assert.Equal(t, 1.0, s.SignalRate)
}

func TestMonitor_CleanBodyNoSignals(t *testing.T) {
	srv := createTestServer(serverClean)
	defer srv.Close()

	var buf bytes.Buffer
	m := New(testConfig(srv.URL), output.NewFormatter(&buf, false))

	runFor(t, m, 200*time.Millisecond)

	s := m.Summary()
	require.Greater(t, s.TotalRequests, int64(0))
	assert.Zero(t, s.Signals)
	assert.Zero(t, s.Errors)
	assert.Greater(t, s.RPS, 0.0)
	assert.Greater(t, s.Latency.Max, time.Duration(0))
}

func TestMonitor_ReportLineFormat(t *testing.T) {
	srv := createTestServer(serverClean)
	defer srv.Close()

	var buf bytes.Buffer
	m := New(testConfig(srv.URL), output.NewFormatter(&buf, false))

	runFor(t, m, 200*time.Millisecond)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Regexp(t, reportLineRe, string(line))
	}
}

func TestMonitor_ShutdownIsBounded(t *testing.T) {
	srv := createTestServer(serverSlow)
	defer srv.Close()

	var buf bytes.Buffer
	m := New(testConfig(srv.URL), output.NewFormatter(&buf, false))

	done := make(chan struct{})
	go func() {
		m.Run(nil)
		close(done)
	}()
	time.Sleep(150 * time.Millisecond)

	start := time.Now()
	m.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not shut down")
	}

	// Workers finish their in-flight request before observing the flag, so
	// shutdown is bounded by the request timeout, not instantaneous.
	assert.Less(t, time.Since(start), 2*time.Second+500*time.Millisecond)
}

func TestMonitor_QuietSuppressesReportLines(t *testing.T) {
	srv := createTestServer(serverClean)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Quiet = true

	var buf bytes.Buffer
	m := New(cfg, output.NewFormatter(&buf, false))

	runFor(t, m, 150*time.Millisecond)

	assert.Empty(t, buf.String())
	assert.Greater(t, m.Summary().TotalRequests, int64(0))
}

type countingCollector struct {
	observations atomic.Int64
	failures     atomic.Int64
	signals      atomic.Int64
}

func (c *countingCollector) Observe(latency float64, failed, signal bool) {
	c.observations.Add(1)
	if failed {
		c.failures.Add(1)
	}
	if signal {
		c.signals.Add(1)
	}
}

func TestMonitor_CollectorReceivesObservations(t *testing.T) {
	srv := createTestServer(serverMarker)
	defer srv.Close()

	var buf bytes.Buffer
	collector := &countingCollector{}
	m := New(testConfig(srv.URL), output.NewFormatter(&buf, false), WithCollector(collector))

	runFor(t, m, 200*time.Millisecond)

	s := m.Summary()
	assert.Equal(t, s.TotalRequests, collector.observations.Load())
	assert.Equal(t, s.Signals, collector.signals.Load())
	assert.Zero(t, collector.failures.Load())
}

func TestMonitor_ReportDegenerateWindow(t *testing.T) {
	var buf bytes.Buffer
	m := New(testConfig("http://localhost:0/"), output.NewFormatter(&buf, false))

	m.report(Window{}, 2.0, 1.0)

	want := "[2.000000] latency=0000:0000:0000:0000:0000ms throughput=0000rps rr=00% errors=0000\n"
	assert.Equal(t, want, buf.String())
}

func TestMonitor_ReportComputesRates(t *testing.T) {
	var buf bytes.Buffer
	m := New(testConfig("http://localhost:0/"), output.NewFormatter(&buf, false))

	w := Window{
		Errors:    1,
		Signals:   2,
		Latencies: []float64{0.001, 0.002, 0.003, 0.004},
	}
	m.report(w, 11.0, 10.0)

	want := "[11.000000] latency=0001:0001:0002:0003:0004ms throughput=0004rps rr=50% errors=0001\n"
	assert.Equal(t, want, buf.String())
}
