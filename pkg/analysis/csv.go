package analysis

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// comparisonHeader is the column layout of the flat comparison rendering.
var comparisonHeader = []string{
	"variant", "benchmark", "metric", "unit", "direction",
	"baseline_mean", "baseline_stddev", "baseline_n",
	"candidate_mean", "candidate_stddev", "candidate_n",
	"percent_change", "decision",
}

// standaloneHeader is the column layout of the flat standalone rendering.
var standaloneHeader = []string{
	"benchmark", "metric", "unit", "direction", "mean", "stddev", "n",
}

// RenderCSV renders the comparison result as delimited text, one row per
// metric comparison. Embedded delimiters, quotes, and newlines in values are
// escaped by the encoding.
func (r *ComparisonResult) RenderCSV() ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(comparisonHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	for _, variant := range r.Variants {
		for _, benchmark := range variant.Benchmarks {
			for _, m := range benchmark.Metrics {
				row := []string{
					variant.Variant.Name,
					benchmark.Name,
					m.Name,
					string(m.Unit),
					string(m.Direction),
					formatFloat(m.Baseline.Mean),
					formatFloat(m.Baseline.Stddev),
					strconv.Itoa(m.Baseline.N),
					formatFloat(m.Candidate.Mean),
					formatFloat(m.Candidate.Stddev),
					strconv.Itoa(m.Candidate.N),
					formatFloat(m.PercentChange),
					string(m.Decision),
				}

				if err := w.Write(row); err != nil {
					return nil, fmt.Errorf("writing csv row: %w", err)
				}
			}
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderCSV renders the standalone result as delimited text, one row per
// metric summary.
func (r *StandaloneResult) RenderCSV() ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(standaloneHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	for _, benchmark := range r.Benchmarks {
		for _, m := range benchmark.Metrics {
			row := []string{
				benchmark.Name,
				m.Name,
				string(m.Unit),
				string(m.Direction),
				formatFloat(m.Mean),
				formatFloat(m.Stddev),
				strconv.Itoa(m.N),
			}

			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("writing csv row: %w", err)
			}
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}

// formatFloat renders a float with full precision.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
