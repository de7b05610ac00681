package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/ethpandaops/regressoor/pkg/artifact"
	"github.com/ethpandaops/regressoor/pkg/metric"
	"github.com/ethpandaops/regressoor/pkg/sysinfo"
	"github.com/ethpandaops/regressoor/pkg/ttest"
)

// SummaryValues is the numeric part of a metric summary as it appears in
// reports.
type SummaryValues struct {
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev"`
	N      int     `json:"n"`
}

// MetricComparison is one metric's baseline and candidate summary together
// with the resulting decision.
type MetricComparison struct {
	Name          string           `json:"name"`
	Unit          metric.Unit      `json:"unit"`
	Direction     metric.Direction `json:"direction"`
	Baseline      SummaryValues    `json:"baseline"`
	Candidate     SummaryValues    `json:"candidate"`
	PercentChange float64          `json:"percent_change"`
	Decision      ttest.Decision   `json:"decision"`
}

// BenchmarkComparison groups the metric comparisons of one benchmark.
type BenchmarkComparison struct {
	Name    string             `json:"name"`
	Metrics []MetricComparison `json:"metrics"`
}

// VariantComparison holds one candidate variant's comparisons against the
// baseline, one block per benchmark in suite order.
type VariantComparison struct {
	Variant    artifact.Variant      `json:"variant"`
	Benchmarks []BenchmarkComparison `json:"benchmarks"`
}

// ComparisonResult is the full output of a comparison session.
type ComparisonResult struct {
	Settings *artifact.RunSettings `json:"settings,omitempty"`
	Host     *sysinfo.Host         `json:"host,omitempty"`
	Baseline artifact.Variant      `json:"baseline"`
	PValue   float64               `json:"pvalue"`
	Variants []VariantComparison   `json:"variants"`
}

// BenchmarkSummary groups the metric summaries of one benchmark.
type BenchmarkSummary struct {
	Name    string           `json:"name"`
	Metrics []metric.Summary `json:"metrics"`
}

// StandaloneResult is the output of a standalone session: per-benchmark
// metric summaries for a single variant, no comparison fields.
type StandaloneResult struct {
	Settings   *artifact.RunSettings `json:"settings,omitempty"`
	Host       *sysinfo.Host         `json:"host,omitempty"`
	Variant    artifact.Variant      `json:"variant"`
	Benchmarks []BenchmarkSummary    `json:"benchmarks"`
}

// RenderJSON renders the comparison result as indented JSON.
func (r *ComparisonResult) RenderJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling comparison result: %w", err)
	}

	return data, nil
}

// ParseComparisonResult parses a JSON comparison result, the inverse of
// RenderJSON.
func ParseComparisonResult(data []byte) (*ComparisonResult, error) {
	var result ComparisonResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing comparison result: %w", err)
	}

	return &result, nil
}

// RenderJSON renders the standalone result as indented JSON.
func (r *StandaloneResult) RenderJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling standalone result: %w", err)
	}

	return data, nil
}
