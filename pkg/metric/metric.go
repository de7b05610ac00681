// Package metric defines the catalogue of performance metrics extracted from
// benchmark iterations, and computes per-benchmark summaries over them.
package metric

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/ethpandaops/regressoor/pkg/artifact"
)

// Unit tags a metric's value domain.
type Unit string

const (
	UnitTime  Unit = "time"
	UnitCount Unit = "count"
	UnitSize  Unit = "size"
)

// Direction states which way an improvement points for a metric.
type Direction string

const (
	LowerIsBetter  Direction = "lower_is_better"
	HigherIsBetter Direction = "higher_is_better"
)

// Definition is an immutable metric descriptor: a named, unit-tagged,
// direction-tagged pure function from one iteration to a scalar.
type Definition struct {
	Name      string
	Unit      Unit
	Direction Direction
	Extract   func(*artifact.Iteration) float64
}

// Registry is an ordered, append-only sequence of metric definitions.
//
// Summaries are always computed in registry order so that baseline and
// candidate summaries line up positionally during comparison; no name-based
// re-matching is performed.
type Registry struct {
	defs []Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a metric definition to the registry.
func (r *Registry) Register(def Definition) {
	r.defs = append(r.defs, def)
}

// Definitions returns the registered metrics in registration order. The
// returned slice is shared; callers must not mutate it.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Summary is one metric summarized over all iterations of one benchmark
// under one variant.
type Summary struct {
	Name      string    `json:"name"`
	Unit      Unit      `json:"unit"`
	Direction Direction `json:"direction"`
	Mean      float64   `json:"mean"`
	Stddev    float64   `json:"stddev"`
	N         int       `json:"n"`
}

// Summarize evaluates every registered metric over every iteration of the
// benchmark and returns the summaries in registry order.
func Summarize(registry *Registry, benchmark *artifact.Benchmark) []Summary {
	summaries := make([]Summary, 0, registry.Len())

	for _, def := range registry.Definitions() {
		values := make([]float64, 0, len(benchmark.Runs))
		for _, run := range benchmark.Runs {
			values = append(values, def.Extract(run))
		}

		summaries = append(summaries, summarize(def, values))
	}

	return summaries
}

// summarize computes the mean and sample standard deviation of one metric's
// values. The sample standard deviation is defined as 0 when the sample size
// is at most 1.
func summarize(def Definition, values []float64) Summary {
	summary := Summary{
		Name:      def.Name,
		Unit:      def.Unit,
		Direction: def.Direction,
		N:         len(values),
	}

	if len(values) == 0 {
		return summary
	}

	summary.Mean = stats.Mean(values)

	if len(values) > 1 {
		summary.Stddev = stats.Sample{Xs: values}.StdDev()
	}

	return summary
}
