package results

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/basakil/webapi-bench/internal/filelock"
	"github.com/basakil/webapi-bench/utils"
)

const (
	MarkdownFile = "webapi_summary.md"
	CSVFile      = "webapi_summary.csv"
	lockFile     = ".summary.lock"
	barWidth     = 30
)

// LoadDir extracts metrics from every *.json report in dir, sorted by file
// name. Dotfiles are skipped. Each label is the file name without its extension.
func LoadDir(dir string) ([]Metrics, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in %s: %w", dir, err)
	}

	metrics := make([]Metrics, 0, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read report: %w", err)
		}
		rps, mean, p99, err := Extract(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		metrics = append(metrics, Metrics{
			Label:       strings.TrimSuffix(base, filepath.Ext(base)),
			RPS:         rps,
			MeanLatency: mean,
			P99Latency:  p99,
		})
	}
	return metrics, nil
}

// RenderMarkdown writes a table of all runs with a throughput bar scaled to
// the fastest run. host names the machine that produced the summary.
func RenderMarkdown(w io.Writer, runID, host string, metrics []Metrics) error {
	var maxRPS float64
	for _, m := range metrics {
		if m.RPS > maxRPS {
			maxRPS = m.RPS
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Web API benchmark summary\n\n")
	fmt.Fprintf(&b, "Run `%s` on `%s`\n\n", runID, host)
	fmt.Fprintf(&b, "| Target | Requests/sec | Mean latency | p99 latency | Throughput |\n")
	fmt.Fprintf(&b, "|--------|-------------:|-------------:|------------:|------------|\n")
	for _, m := range metrics {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %s |\n",
			m.Label, m.RPS, m.MeanLatency, m.P99Latency, bar(m.RPS, maxRPS))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func bar(value, peak float64) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := int(value / peak * barWidth)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// RenderCSV writes one header row and one row per run.
func RenderCSV(w io.Writer, metrics []Metrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "rps", "latency_mean", "latency_p99"}); err != nil {
		return err
	}
	for _, m := range metrics {
		row := []string{m.Label, formatFloat(m.RPS), formatFloat(m.MeanLatency), formatFloat(m.P99Latency)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteSummary renders the markdown and CSV summaries and the PNG charts into
// outDir while holding outDir/.summary.lock, so concurrent runs never
// interleave their output. It returns the id stamped on this run.
func WriteSummary(ctx context.Context, outDir string, metrics []Metrics, lockTimeout time.Duration) (string, error) {
	lock, err := filelock.Acquire(ctx, filepath.Join(outDir, lockFile), lockTimeout)
	if err != nil {
		return "", err
	}
	defer lock.Unlock()

	runID := uuid.NewString()

	var md bytes.Buffer
	if err := RenderMarkdown(&md, runID, utils.GetHostname(), metrics); err != nil {
		return "", fmt.Errorf("failed to render markdown summary: %w", err)
	}
	if err := writeFile(filepath.Join(outDir, MarkdownFile), md.Bytes()); err != nil {
		return "", err
	}

	var csvBuf bytes.Buffer
	if err := RenderCSV(&csvBuf, metrics); err != nil {
		return "", fmt.Errorf("failed to render csv summary: %w", err)
	}
	if err := writeFile(filepath.Join(outDir, CSVFile), csvBuf.Bytes()); err != nil {
		return "", err
	}

	if err := RenderCharts(outDir, metrics); err != nil {
		return "", err
	}

	return runID, nil
}

// writeFile replaces path atomically via a temp file in the same directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
