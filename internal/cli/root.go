// Package cli wires the command line surface to the monitor.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"httpmon/internal/config"
	"httpmon/internal/monitor"
	"httpmon/internal/output"
	"httpmon/internal/promexp"
)

var version = "0.1.0"

// newRootCmd builds the root command with a fresh flag set.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "httpmon",
		Short:   "Real-time monitor of an HTTP server's throughput and latency",
		Version: version,
		Long: `httpmon hammers a single URL from many concurrent workers and prints one
report line per second to stderr: latency quartiles, throughput, signal rate
(share of responses whose body carried the marker byte) and error count.

It runs until interrupted (SIGINT or SIGQUIT); workers finish their in-flight
request before shutting down, so stopping can take up to one request timeout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMonitor,
	}

	cmd.Flags().String("url", "", "URL to request")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "number of concurrent request workers")
	cmd.Flags().Int("timeout", int(config.DefaultTimeout/time.Second), "per-request timeout in seconds (0 disables)")
	cmd.Flags().Duration("interval", config.DefaultInterval, "reporting interval")
	cmd.Flags().StringP("config", "c", "", "YAML configuration file")
	cmd.Flags().BoolP("quiet", "q", false, "suppress per-interval report lines, keep the final summary")
	cmd.Flags().Bool("no-color", false, "disable colored output")
	cmd.Flags().String("metrics-listen", "", "address for a Prometheus /metrics endpoint, e.g. :9190")
	cmd.Flags().String("summary-json", "", "write the final summary to this file as JSON")

	return cmd
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := output.NewFormatter(os.Stderr, output.UseColor(os.Stderr, cfg.NoColor))

	var opts []monitor.Option
	var exporter *promexp.Exporter
	if cfg.MetricsListen != "" {
		exporter = promexp.New(cfg.MetricsListen)
		exporter.Start()
		opts = append(opts, monitor.WithCollector(exporter))
	}

	mon := monitor.New(cfg, out, opts...)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	mon.Run(sigCh)

	summary := mon.Summary()
	out.WriteSummary(summary)
	if cfg.SummaryPath != "" {
		if err := output.WriteJSON(summary, cfg.SummaryPath); err != nil {
			fmt.Fprintf(os.Stderr, "writing summary: %v\n", err)
		}
	}

	if exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = exporter.Shutdown(ctx)
	}

	return nil
}

// buildConfig assembles the configuration from defaults, the optional YAML
// file and the command line, with explicitly set flags winning over the file.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	cfg.URL, _ = cmd.Flags().GetString("url")
	cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	cfg.Timeout = time.Duration(timeoutSecs) * time.Second
	cfg.Interval, _ = cmd.Flags().GetDuration("interval")
	cfg.Quiet, _ = cmd.Flags().GetBool("quiet")
	cfg.NoColor, _ = cmd.Flags().GetBool("no-color")
	cfg.MetricsListen, _ = cmd.Flags().GetString("metrics-listen")
	cfg.SummaryPath, _ = cmd.Flags().GetString("summary-json")

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.LoadFile(path, &cfg, cmd.Flags().Changed); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Execute runs the root command and returns the process exit code: non-zero
// on argument or configuration errors, and also when help was requested.
func Execute() int {
	return execute(newRootCmd())
}

func execute(cmd *cobra.Command) int {
	helpShown := false
	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		helpShown = true
		defaultHelp(c, args)
	})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return 1
	}
	if helpShown {
		return 1
	}
	return 0
}
