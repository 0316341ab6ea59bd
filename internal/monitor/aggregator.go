package monitor

import "sync"

// Window is one reporting interval's worth of drained outcomes.
type Window struct {
	Errors    uint64
	Signals   uint64
	Latencies []float64
}

// Count returns the number of completed requests in the window.
func (w Window) Count() int {
	return len(w.Latencies)
}

// Aggregator is the single point of contention between the request workers
// (many writers) and the report loop (one reader). A single mutex guards all
// three fields together so a drain can never observe a partially recorded
// outcome, e.g. a bumped error count whose latency sample is still missing.
type Aggregator struct {
	mu        sync.Mutex
	errors    uint64
	signals   uint64
	latencies []float64
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record adds one request outcome. Failed requests still contribute their
// observed latency; a timed-out request counts as a sample of roughly the
// timeout duration. Safe for concurrent use; the lock is held only for this
// O(1) amortized update, never across network I/O.
func (a *Aggregator) Record(latency float64, failed, signal bool) {
	a.mu.Lock()
	if failed {
		a.errors++
	}
	if signal {
		a.signals++
	}
	a.latencies = append(a.latencies, latency)
	a.mu.Unlock()
}

// DrainAndReset atomically moves the accumulated state out and resets all
// three fields together. The returned latency slice is owned by the caller;
// the replacement keeps the old capacity as a sizing hint since consecutive
// windows tend to be similar.
func (a *Aggregator) DrainAndReset() Window {
	a.mu.Lock()
	w := Window{
		Errors:    a.errors,
		Signals:   a.signals,
		Latencies: a.latencies,
	}
	a.errors = 0
	a.signals = 0
	a.latencies = make([]float64, 0, cap(w.Latencies))
	a.mu.Unlock()
	return w
}
