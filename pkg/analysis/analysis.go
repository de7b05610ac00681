// Package analysis runs analysis sessions over an aggregated corpus: either
// a standalone summary of a single variant, or a baseline-vs-candidates
// comparison classifying every metric of every benchmark.
package analysis

import (
	"fmt"
	"strings"

	"github.com/ethpandaops/regressoor/pkg/artifact"
	"github.com/ethpandaops/regressoor/pkg/corpus"
	"github.com/ethpandaops/regressoor/pkg/metric"
	"github.com/ethpandaops/regressoor/pkg/ttest"
	"github.com/sirupsen/logrus"
)

// Summarize runs a standalone session: per-benchmark metric summaries for
// the corpus's single variant. The corpus must contain exactly one variant.
func Summarize(
	log logrus.FieldLogger,
	c *corpus.Corpus,
	registry *metric.Registry,
) (*StandaloneResult, error) {
	versions := c.Versions()
	if len(versions) != 1 {
		return nil, fmt.Errorf(
			"standalone analysis requires exactly one variant, corpus has %d (%s)",
			len(versions), strings.Join(c.VariantNames(), ", "),
		)
	}

	version := versions[0]

	result := &StandaloneResult{
		Settings:   c.Settings(),
		Variant:    version.Variant,
		Benchmarks: make([]BenchmarkSummary, 0, len(version.Benchmarks)),
	}

	for _, benchmark := range version.Benchmarks {
		result.Benchmarks = append(result.Benchmarks, BenchmarkSummary{
			Name:    benchmark.Name,
			Metrics: metric.Summarize(registry, benchmark),
		})
	}

	log.WithFields(logrus.Fields{
		"variant":    version.Variant.Name,
		"benchmarks": len(result.Benchmarks),
	}).Info("Standalone analysis complete")

	return result, nil
}

// Compare runs a comparison session: it locates the baseline variant by
// exact name, summarizes every benchmark of every other variant, and
// classifies each metric with the t-test at the given significance level.
//
// Benchmarks are matched positionally between baseline and candidate, and
// metrics positionally in registry order. A candidate whose benchmark suite
// length differs from the baseline's is a precondition failure.
func Compare(
	log logrus.FieldLogger,
	c *corpus.Corpus,
	registry *metric.Registry,
	baselineName string,
	pvalue float64,
) (*ComparisonResult, error) {
	if err := ttest.ValidatePValue(pvalue); err != nil {
		return nil, err
	}

	versions := c.Versions()

	baseline := findVersion(versions, baselineName)
	if baseline == nil {
		return nil, fmt.Errorf(
			"baseline variant %q not found, known variants: %s",
			baselineName, strings.Join(c.VariantNames(), ", "),
		)
	}

	// Baseline summaries are computed once and reused for every candidate.
	baselineSummaries := make([][]metric.Summary, len(baseline.Benchmarks))
	for i, benchmark := range baseline.Benchmarks {
		baselineSummaries[i] = metric.Summarize(registry, benchmark)
	}

	result := &ComparisonResult{
		Settings: c.Settings(),
		Baseline: baseline.Variant,
		PValue:   pvalue,
	}

	for _, candidate := range versions {
		if candidate == baseline {
			continue
		}

		vc, err := compareVersion(registry, baseline, baselineSummaries, candidate, pvalue)
		if err != nil {
			return nil, err
		}

		result.Variants = append(result.Variants, *vc)
	}

	log.WithFields(logrus.Fields{
		"baseline":   baseline.Variant.Name,
		"candidates": len(result.Variants),
		"pvalue":     pvalue,
	}).Info("Comparison analysis complete")

	return result, nil
}

// compareVersion compares one candidate variant against the baseline.
func compareVersion(
	registry *metric.Registry,
	baseline *artifact.Version,
	baselineSummaries [][]metric.Summary,
	candidate *artifact.Version,
	pvalue float64,
) (*VariantComparison, error) {
	if len(candidate.Benchmarks) != len(baseline.Benchmarks) {
		return nil, fmt.Errorf(
			"variant %q ran %d benchmarks but baseline %q ran %d, suites must match",
			candidate.Variant.Name, len(candidate.Benchmarks),
			baseline.Variant.Name, len(baseline.Benchmarks),
		)
	}

	vc := &VariantComparison{
		Variant:    candidate.Variant,
		Benchmarks: make([]BenchmarkComparison, 0, len(candidate.Benchmarks)),
	}

	for i, benchmark := range candidate.Benchmarks {
		candidateSummaries := metric.Summarize(registry, benchmark)

		bc := BenchmarkComparison{
			Name:    baseline.Benchmarks[i].Name,
			Metrics: make([]MetricComparison, 0, len(candidateSummaries)),
		}

		for j, candSummary := range candidateSummaries {
			baseSummary := baselineSummaries[i][j]

			outcome, err := ttest.Decide(baseSummary, candSummary, pvalue)
			if err != nil {
				return nil, fmt.Errorf(
					"comparing %s/%s/%s: %w",
					candidate.Variant.Name, benchmark.Name, candSummary.Name, err,
				)
			}

			bc.Metrics = append(bc.Metrics, MetricComparison{
				Name:          baseSummary.Name,
				Unit:          baseSummary.Unit,
				Direction:     baseSummary.Direction,
				Baseline:      SummaryValues{baseSummary.Mean, baseSummary.Stddev, baseSummary.N},
				Candidate:     SummaryValues{candSummary.Mean, candSummary.Stddev, candSummary.N},
				PercentChange: percentChange(baseSummary.Mean, candSummary.Mean),
				Decision:      outcome.Decision,
			})
		}

		vc.Benchmarks = append(vc.Benchmarks, bc)
	}

	return vc, nil
}

// findVersion returns the first version whose variant name matches exactly.
func findVersion(versions []*artifact.Version, name string) *artifact.Version {
	for _, v := range versions {
		if v.Variant.Name == name {
			return v
		}
	}

	return nil
}

// percentChange returns the candidate's relative change against the
// baseline, in percent. A zero baseline yields 0 to keep reports
// serializable.
func percentChange(baseline, candidate float64) float64 {
	if baseline == 0 {
		return 0
	}

	return (candidate/baseline - 1) * 100
}
