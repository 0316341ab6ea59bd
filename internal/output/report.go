// Package output renders httpmon's per-interval report lines and the
// end-of-run summary. Everything here is presentation: the numbers are
// computed by the monitor and arrive ready to print.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"httpmon/internal/stats"
)

// Report is the data behind one printed line. A zero-valued Report is the
// degenerate case for an interval without any completed request.
type Report struct {
	// Timestamp is seconds since epoch at drain time.
	Timestamp float64

	// Quartiles summarize the interval's latency samples, in seconds.
	Quartiles stats.Quartiles

	// Throughput is completed requests per second, truncated.
	Throughput int

	// SignalRate is the percentage of responses carrying the marker byte,
	// truncated.
	SignalRate int

	// Errors is the number of failed requests in the interval.
	Errors uint64
}

// Formatter writes report lines and notices to a single destination,
// optionally colorized.
type Formatter struct {
	w         io.Writer
	errColor  *color.Color
	boldColor *color.Color
	dimColor  *color.Color
}

// NewFormatter creates a Formatter writing to w. Color codes are only
// emitted when useColor is true; with colors disabled the output is exactly
// the fixed-width line format.
func NewFormatter(w io.Writer, useColor bool) *Formatter {
	f := &Formatter{
		w:         w,
		errColor:  color.New(color.FgRed, color.Bold),
		boldColor: color.New(color.Bold),
		dimColor:  color.New(color.Faint),
	}
	if !useColor {
		f.errColor.DisableColor()
		f.boldColor.DisableColor()
		f.dimColor.DisableColor()
	}
	return f
}

// WriteReport prints one fixed-width report line. Quartiles are truncated to
// integer milliseconds, throughput to integer requests per second, the signal
// rate to an integer percentage; all fields are zero-padded.
func (f *Formatter) WriteReport(r Report) {
	errors := fmt.Sprintf("%04d", r.Errors)
	if r.Errors > 0 {
		errors = f.errColor.Sprintf("%04d", r.Errors)
	}

	fmt.Fprintf(f.w, "[%f] latency=%04d:%04d:%04d:%04d:%04dms throughput=%04drps rr=%02d%% errors=%s\n",
		r.Timestamp,
		int(r.Quartiles.Min*1000),
		int(r.Quartiles.Q1*1000),
		int(r.Quartiles.Median*1000),
		int(r.Quartiles.Q3*1000),
		int(r.Quartiles.Max*1000),
		r.Throughput,
		r.SignalRate,
		errors)
}

// Noticef prints an out-of-band line, e.g. the shutdown notice.
func (f *Formatter) Noticef(format string, args ...interface{}) {
	fmt.Fprintf(f.w, format+"\n", args...)
}

// UseColor reports whether colored output should be used for w. The NO_COLOR
// convention and the --no-color flag both win over terminal detection.
func UseColor(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
