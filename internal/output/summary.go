package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Summary is the end-of-run view over the whole process lifetime, fed by the
// monitor's cumulative histogram and counters.
type Summary struct {
	URL         string  `json:"url"`
	Concurrency int     `json:"concurrency"`
	Duration    float64 `json:"durationSeconds"`

	TotalRequests int64 `json:"totalRequests"`
	Errors        int64 `json:"errors"`
	Signals       int64 `json:"signals"`

	// ErrorRate and SignalRate are fractions in [0,1].
	ErrorRate  float64 `json:"errorRate"`
	SignalRate float64 `json:"signalRate"`
	RPS        float64 `json:"rps"`

	Latency LatencySummary `json:"latency"`
}

// LatencySummary contains whole-run latency statistics.
type LatencySummary struct {
	Min  time.Duration `json:"min"`
	Mean time.Duration `json:"mean"`
	Max  time.Duration `json:"max"`
	P50  time.Duration `json:"p50"`
	P90  time.Duration `json:"p90"`
	P95  time.Duration `json:"p95"`
	P99  time.Duration `json:"p99"`
}

// WriteSummary prints the end-of-run summary block.
func (f *Formatter) WriteSummary(s Summary) {
	line := strings.Repeat("─", 56)

	f.Noticef("%s", f.dimColor.Sprint(line))
	f.Noticef("%s", f.boldColor.Sprintf("httpmon summary: %s", s.URL))
	f.Noticef("  Duration:    %.1fs (%d workers)", s.Duration, s.Concurrency)
	f.Noticef("  Requests:    %d (%.2f req/s)", s.TotalRequests, s.RPS)
	f.Noticef("  Errors:      %d (%.2f%%)", s.Errors, s.ErrorRate*100)
	f.Noticef("  Signals:     %d (%.2f%%)", s.Signals, s.SignalRate*100)
	f.Noticef("  Latency:     min=%s mean=%s max=%s",
		s.Latency.Min.Round(time.Microsecond),
		s.Latency.Mean.Round(time.Microsecond),
		s.Latency.Max.Round(time.Microsecond))
	f.Noticef("               p50=%s p90=%s p95=%s p99=%s",
		s.Latency.P50.Round(time.Microsecond),
		s.Latency.P90.Round(time.Microsecond),
		s.Latency.P95.Round(time.Microsecond),
		s.Latency.P99.Round(time.Microsecond))
	f.Noticef("%s", f.dimColor.Sprint(line))
}

// WriteJSON writes the summary to path as indented JSON.
func WriteJSON(s Summary, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary to %s: %w", path, err)
	}
	return nil
}
