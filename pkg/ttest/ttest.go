// Package ttest implements the unpaired two-sample Student's t-test used to
// classify metric comparisons.
//
// The test deliberately works off a fixed critical-value table instead of a
// continuous t-distribution: it supports exactly the significance levels in
// AllowedPValues, and it assumes (without verifying) that both samples have
// comparable variance. Both limitations are part of the documented behavior;
// switching to Welch's t-test would change decisions on existing data.
package ttest

import (
	"fmt"
	"math"

	"github.com/ethpandaops/regressoor/pkg/metric"
)

// Decision classifies one metric comparison.
type Decision string

const (
	Regression    Decision = "regression"
	Improvement   Decision = "improvement"
	Indeterminate Decision = "indeterminate"
)

// Invert swaps Regression and Improvement; Indeterminate is unchanged.
func (d Decision) Invert() Decision {
	switch d {
	case Regression:
		return Improvement
	case Improvement:
		return Regression
	default:
		return d
	}
}

// ValidatePValue checks that p is one of the supported significance levels.
func ValidatePValue(p float64) error {
	for _, allowed := range AllowedPValues {
		if p == allowed {
			return nil
		}
	}

	return fmt.Errorf("unsupported p-value %v, must be one of %v", p, AllowedPValues)
}

// CriticalValue returns the two-tailed critical value for the given degrees
// of freedom and significance level.
//
// If the exact degrees of freedom are not a table row, the row with the
// numerically closest key is used; ties resolve to the first closest row
// found during a linear scan.
func CriticalValue(dof int, p float64) (float64, error) {
	col := -1

	for i, allowed := range AllowedPValues {
		if p == allowed {
			col = i

			break
		}
	}

	if col < 0 {
		return 0, fmt.Errorf("unsupported p-value %v, must be one of %v", p, AllowedPValues)
	}

	if row, ok := criticalValues[dof]; ok {
		return row[col], nil
	}

	best := tableDofs[0]
	bestDist := abs(dof - best)

	for _, key := range tableDofs[1:] {
		if dist := abs(dof - key); dist < bestDist {
			best = key
			bestDist = dist
		}
	}

	return criticalValues[best][col], nil
}

// Result carries the decision together with the intermediate quantities of
// the test, mainly for diagnostics and tests.
type Result struct {
	Statistic        float64
	CriticalValue    float64
	DegreesOfFreedom int
	Decision         Decision
}

// Decide runs the unpaired equal-variance t-test on a baseline and candidate
// summary of the same metric and classifies the outcome.
//
// The null hypothesis is that both samples share a mean. If |t| stays below
// the table's critical value the difference is Indeterminate. Otherwise the
// sign of the difference and the metric's direction determine whether the
// candidate improved or regressed.
func Decide(baseline, candidate metric.Summary, p float64) (Result, error) {
	if baseline.N < 1 || candidate.N < 1 {
		return Result{}, fmt.Errorf(
			"t-test requires at least one sample on each side, got %d and %d",
			baseline.N, candidate.N,
		)
	}

	dof := baseline.N + candidate.N - 2

	crit, err := CriticalValue(dof, p)
	if err != nil {
		return Result{}, err
	}

	// One sample per side leaves zero degrees of freedom and an undefined
	// pooled variance. There is no variance evidence to test against, so the
	// difference cannot be called significant.
	if dof < 1 {
		return Result{
			CriticalValue:    crit,
			DegreesOfFreedom: dof,
			Decision:         Indeterminate,
		}, nil
	}

	n1 := float64(baseline.N)
	n2 := float64(candidate.N)

	pooledVar := ((n1-1)*baseline.Stddev*baseline.Stddev +
		(n2-1)*candidate.Stddev*candidate.Stddev) / (n1 + n2 - 2)
	pooled := math.Sqrt(pooledVar)

	diff := baseline.Mean - candidate.Mean

	var t float64

	switch {
	case pooled == 0 && diff == 0:
		// Zero variance and identical means: no evidence of a difference.
		t = 0
	case pooled == 0:
		// Zero variance with different means is an exact difference.
		t = math.Inf(1)
		if diff < 0 {
			t = math.Inf(-1)
		}
	default:
		t = diff / (pooled * math.Sqrt(1/n1+1/n2))
	}

	result := Result{
		Statistic:        t,
		CriticalValue:    crit,
		DegreesOfFreedom: dof,
		Decision:         Indeterminate,
	}

	if math.Abs(t) < crit {
		return result, nil
	}

	// Significant difference: classify by the metric's direction.
	improved := baseline.Mean > candidate.Mean
	if baseline.Direction == metric.HigherIsBetter {
		improved = baseline.Mean < candidate.Mean
	}

	if improved {
		result.Decision = Improvement
	} else {
		result.Decision = Regression
	}

	return result, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
