// Command bench-summary turns the bombardier JSON reports of a benchmark run
// into a markdown table and a CSV file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/basakil/webapi-bench/internal/results"
	"github.com/basakil/webapi-bench/pkg/config"
)

var defaults = map[string]interface{}{
	"results.raw":          "results/raw",
	"results.out":          "results/charts",
	"results.lock.timeout": 30,
}

func main() {
	cfg, err := config.Load(defaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	resultsCfg := cfg.GetSubConfig("results")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rawDir := resultsCfg.GetString("raw")
	outDir := resultsCfg.GetString("out")

	metrics, err := results.LoadDir(rawDir)
	if err != nil {
		logger.Error("Failed to load reports", "directory", rawDir, "error", err)
		os.Exit(1)
	}
	if len(metrics) == 0 {
		logger.Warn("No reports found", "directory", rawDir)
	}

	lockTimeout := time.Duration(resultsCfg.GetInt("lock.timeout")) * time.Second
	runID, err := results.WriteSummary(ctx, outDir, metrics, lockTimeout)
	if err != nil {
		logger.Error("Failed to write summary", "directory", outDir, "error", err)
		os.Exit(1)
	}

	for _, m := range metrics {
		logger.Info("Report", "label", m.Label, "rps", m.RPS, "latencyMean", m.MeanLatency, "latencyP99", m.P99Latency)
	}
	logger.Info("Summary saved", "directory", outDir, "runId", runID, "reports", len(metrics))
}
