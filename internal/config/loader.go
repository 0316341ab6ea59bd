package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML file surface. Pointer fields distinguish
// "absent" from zero values.
//
// Example:
//
//	url: https://example.com/recommender
//	concurrency: 200
//	timeout: 5
//	interval: 500ms
//	quiet: false
//	metricsListen: ":9190"
//	summaryJson: run.json
type fileConfig struct {
	URL           string `yaml:"url"`
	Concurrency   *int   `yaml:"concurrency"`
	Timeout       *int   `yaml:"timeout"` // seconds, like --timeout
	Interval      string `yaml:"interval"`
	Quiet         *bool  `yaml:"quiet"`
	NoColor       *bool  `yaml:"noColor"`
	MetricsListen string `yaml:"metricsListen"`
	SummaryPath   string `yaml:"summaryJson"`
}

// LoadFile merges values from a YAML file into cfg. A value is skipped when
// overridden reports its flag name as explicitly set on the command line, so
// flags always win over the file.
func LoadFile(path string, cfg *Config, overridden func(flag string) bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if overridden == nil {
		overridden = func(string) bool { return false }
	}

	if fc.URL != "" && !overridden("url") {
		cfg.URL = fc.URL
	}
	if fc.Concurrency != nil && !overridden("concurrency") {
		cfg.Concurrency = *fc.Concurrency
	}
	if fc.Timeout != nil && !overridden("timeout") {
		cfg.Timeout = time.Duration(*fc.Timeout) * time.Second
	}
	if fc.Interval != "" && !overridden("interval") {
		d, err := time.ParseDuration(fc.Interval)
		if err != nil {
			return fmt.Errorf("parsing %s: invalid interval '%s': %w", path, fc.Interval, err)
		}
		cfg.Interval = d
	}
	if fc.Quiet != nil && !overridden("quiet") {
		cfg.Quiet = *fc.Quiet
	}
	if fc.NoColor != nil && !overridden("no-color") {
		cfg.NoColor = *fc.NoColor
	}
	if fc.MetricsListen != "" && !overridden("metrics-listen") {
		cfg.MetricsListen = fc.MetricsListen
	}
	if fc.SummaryPath != "" && !overridden("summary-json") {
		cfg.SummaryPath = fc.SummaryPath
	}

	return nil
}
