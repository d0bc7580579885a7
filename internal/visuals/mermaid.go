package visuals

import (
	"fmt"
	"math"
	"strings"

	"risk-mcs/internal/simulation"
	"risk-mcs/internal/stats"
)

// GenerateHistogramChart creates a Mermaid bar chart for a result histogram.
// Each bar is labelled with the lower bound of its bucket.
func GenerateHistogramChart(title, axis string, h *stats.Histogram) string {
	if h == nil || len(h.Buckets) == 0 {
		return ""
	}

	var labels []string
	var values []string

	maxVal := 0
	for i, count := range h.Buckets {
		labels = append(labels, fmt.Sprintf("\"%s\"", formatBound(h.Lower(i))))
		values = append(values, fmt.Sprintf("%d", count))
		if count > maxVal {
			maxVal = count
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis \"%s\" [%s]\n", axis, strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Trials\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// ResultCharts renders the late-delay and budget-overrun histograms of a
// result. Histograms that are absent produce no entry.
func ResultCharts(res simulation.Result) map[string]string {
	charts := make(map[string]string)
	if c := GenerateHistogramChart("Late Delay (Not Killed)", "Total delay (days)", res.DelayHistogram); c != "" {
		charts["late_delay"] = c
	}
	if c := GenerateHistogramChart("Budget Overrun (Not Killed)", "Overrun above slack", res.CostHistogram); c != "" {
		charts["budget_overrun"] = c
	}
	if len(charts) == 0 {
		return nil
	}
	return charts
}

func formatBound(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
