// Package stats computes summary statistics over latency samples.
package stats

import (
	"errors"
	"sort"
)

// ErrEmptySample is returned when quartiles are requested over zero samples.
var ErrEmptySample = errors.New("stats: no samples to compute quartiles on")

// Quartiles is the five-number summary of a sample set, in seconds.
type Quartiles struct {
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Compute returns the five-number summary of samples. The slice is sorted in
// place, so callers hand over ownership of it.
//
// The median of an even-length range averages the elements at indices (n-1)/2
// and (n-1)/2+1 rather than the textbook n/2-1 and n/2. Deliberate: report
// streams must stay numerically comparable across httpmon versions.
func Compute(samples []float64) (Quartiles, error) {
	n := len(samples)
	if n < 1 {
		return Quartiles{}, ErrEmptySample
	}

	sort.Float64s(samples)

	q := Quartiles{
		Min:    samples[0],
		Median: median(samples),
		Max:    samples[n-1],
	}

	// A single sample is its own quartile everywhere.
	if n == 1 {
		q.Q1 = samples[0]
		q.Q3 = samples[0]
		return q, nil
	}

	q.Q1 = median(samples[:n/2])
	q.Q3 = median(samples[n/2:])
	return q, nil
}

// median assumes a sorted, non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if (n-1)%2 == 0 {
		return sorted[(n-1)/2]
	}
	return (sorted[(n-1)/2] + sorted[(n-1)/2+1]) / 2
}
