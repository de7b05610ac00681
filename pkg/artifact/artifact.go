// Package artifact defines the in-memory model of one ingested benchmark run
// archive: the run's global settings, the runtime variants that were tested,
// and the per-benchmark, per-iteration execution artifacts.
package artifact

import (
	"time"

	"github.com/ethpandaops/regressoor/pkg/gctrace"
)

// RunSettings is the global collector configuration a run was executed with.
// Every archive aggregated into one analysis must carry the same settings.
type RunSettings struct {
	ServerGC     bool `json:"server_gc" yaml:"server_gc"`
	ConcurrentGC bool `json:"concurrent_gc" yaml:"concurrent_gc"`
}

// Variant identifies one tested runtime build: a human-readable name plus the
// filesystem path it was launched from. Variants compare by value (name AND
// path) and are usable as map keys.
type Variant struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Iteration is a single execution of one benchmark under one variant.
// It is owned by the Benchmark that contains it; Close releases the parsed
// trace handle.
type Iteration struct {
	Index        int
	ExitCode     int
	PID          int
	Duration     time.Duration
	TracePath    string
	ProcessTrace *gctrace.ProcessTrace
}

// Close releases the iteration's trace handle.
func (i *Iteration) Close() error {
	if i.ProcessTrace == nil {
		return nil
	}

	return i.ProcessTrace.Close()
}

// Benchmark is one benchmark's declared configuration plus its ordered
// iterations. Iteration order is the iteration index and carries no meaning.
type Benchmark struct {
	Name        string
	Args        []string
	Iterations  int
	Environment map[string]string

	Runs []*Iteration
}

// Close closes every iteration owned by the benchmark.
func (b *Benchmark) Close() error {
	for _, run := range b.Runs {
		_ = run.Close()
	}

	return nil
}

// Version is one tested variant together with its benchmark artifacts, one
// per benchmark in the suite. Benchmark order is the suite order and is
// identical across all variants of one archive.
type Version struct {
	Variant    Variant
	Benchmarks []*Benchmark
}

// Close closes every benchmark owned by the version.
func (v *Version) Close() error {
	for _, b := range v.Benchmarks {
		_ = b.Close()
	}

	return nil
}
