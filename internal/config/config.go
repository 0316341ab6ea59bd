// Package config holds the runtime configuration for httpmon, its validation,
// and the optional YAML file loader.
package config

import "time"

// Defaults for the flag surface.
const (
	DefaultConcurrency = 100
	DefaultTimeout     = 9 * time.Second
	DefaultInterval    = time.Second
)

// Config is the complete runtime configuration. It is immutable after
// startup; the monitor and its workers only ever read it.
type Config struct {
	// URL is the target every worker requests. Required.
	URL string

	// Concurrency is the number of parallel request workers.
	Concurrency int

	// Timeout bounds each request, including the body read. Zero disables it.
	Timeout time.Duration

	// Interval is the reporting cadence.
	Interval time.Duration

	// Quiet suppresses per-interval report lines; the final summary is kept.
	Quiet bool

	// NoColor disables colored output even on a terminal.
	NoColor bool

	// MetricsListen, when non-empty, is the address of a Prometheus
	// /metrics endpoint.
	MetricsListen string

	// SummaryPath, when non-empty, is where the final summary is written
	// as JSON.
	SummaryPath string
}

// Default returns a Config with all defaults applied and no target URL.
func Default() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		Interval:    DefaultInterval,
	}
}
