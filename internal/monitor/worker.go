package monitor

import (
	"io"
	"net/http"
	"time"
)

// runWorker drives one request loop: perform, measure, scan, record. Errors
// are data, not control flow; only the running flag stops the loop, and it is
// checked once per completed request. Shutdown can therefore lag behind the
// signal by up to one request timeout.
func (m *Monitor) runWorker() {
	defer m.wg.Done()

	scanner := newMarkerScanner(markerByte)

	for m.running.Load() {
		scanner.Reset()

		start := time.Now()
		failed := m.perform(scanner)
		latency := time.Since(start).Seconds()

		m.agg.Record(latency, failed, scanner.Found())
		m.observe(latency, failed, scanner.Found())
	}
}

// perform issues a single GET against the target. Any transport failure,
// timeout, or non-success status counts as a failed request. The body is
// streamed through the marker scanner on success and discarded unscanned on
// an HTTP error, matching a fail-on-error client that never delivers error
// bodies.
func (m *Monitor) perform(scanner *markerScanner) (failed bool) {
	resp, err := m.client.Get(m.cfg.URL)
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return true
	}

	if _, err := io.Copy(scanner, resp.Body); err != nil {
		return true
	}
	return false
}
