package results

import (
	"bytes"
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart file names, written next to the markdown and CSV summaries.
const (
	RPSChartFile         = "webapi_rps.png"
	LatencyMeanChartFile = "webapi_latency_mean.png"
	LatencyP99ChartFile  = "webapi_latency_p99.png"
)

type chart struct {
	file   string
	title  string
	yLabel string
	value  func(Metrics) float64
}

var charts = []chart{
	{RPSChartFile, "Web API Throughput", "Requests/sec (higher is better)", func(m Metrics) float64 { return m.RPS }},
	{LatencyMeanChartFile, "Web API Latency - Mean", "Mean latency (ms, lower is better)", func(m Metrics) float64 { return m.MeanLatency }},
	{LatencyP99ChartFile, "Web API Latency - p99", "p99 latency (ms, lower is better)", func(m Metrics) float64 { return m.P99Latency }},
}

// RenderCharts writes one PNG bar chart per metric into outDir, one bar per run.
func RenderCharts(outDir string, metrics []Metrics) error {
	for _, c := range charts {
		data, err := renderChart(c, metrics)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", c.file, err)
		}
		if err := writeFile(filepath.Join(outDir, c.file), data); err != nil {
			return err
		}
	}
	return nil
}

func renderChart(c chart, metrics []Metrics) ([]byte, error) {
	p := plot.New()
	p.Title.Text = c.title
	p.Y.Label.Text = c.yLabel

	if len(metrics) > 0 {
		values := make(plotter.Values, len(metrics))
		labels := make([]string, len(metrics))
		for i, m := range metrics {
			values[i] = c.value(m)
			labels[i] = m.Label
		}
		bars, err := plotter.NewBarChart(values, vg.Points(24))
		if err != nil {
			return nil, err
		}
		p.Add(bars)
		p.NominalX(labels...)
	}

	width := vg.Length(len(metrics)) * vg.Inch
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	wt, err := p.WriterTo(width, 4*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
