// Package gctrace parses raw GC trace payloads collected alongside benchmark
// runs. A trace file covers one or more processes; each process carries the
// GC events the runtime emitted while it was being benchmarked.
package gctrace

import (
	"encoding/json"
	"fmt"
	"os"
)

// Event kinds. Background collections run concurrently with the mutator,
// blocking collections stop the world for their full duration.
const (
	KindBlocking   = "blocking"
	KindBackground = "background"
)

// Known collection mechanisms reported by the runtime.
const (
	MechanismCompact    = "compact"
	MechanismSweep      = "sweep"
	MechanismConcurrent = "concurrent"
)

// Event is a single garbage collection recorded in a trace.
type Event struct {
	Number          int       `json:"number"`
	Generation      int       `json:"generation"`
	PauseMSec       float64   `json:"pause_msec"`
	Kind            string    `json:"kind"`
	Mechanisms      []string  `json:"mechanisms,omitempty"`
	GenSizesMB      []float64 `json:"gen_sizes_mb,omitempty"`
	HeapSizeMB      float64   `json:"heap_size_mb"`
	FragmentationMB float64   `json:"fragmentation_mb"`
}

// IsFull reports whether the event collected the oldest generation.
func (e *Event) IsFull() bool {
	return e.Generation >= 2
}

// HasMechanism reports whether the event used the given mechanism.
func (e *Event) HasMechanism(mechanism string) bool {
	for _, m := range e.Mechanisms {
		if m == mechanism {
			return true
		}
	}

	return false
}

// ProcessTrace holds the GC events of a single process within a trace.
type ProcessTrace struct {
	PID    int     `json:"pid"`
	Name   string  `json:"name"`
	Events []Event `json:"events"`

	closed bool
}

// Trace is a parsed trace file.
type Trace struct {
	path      string
	Processes []*ProcessTrace
}

// traceFile is the on-disk trace document.
type traceFile struct {
	Processes []*ProcessTrace `json:"processes"`
}

// Parse reads and parses a trace file from the given path.
func Parse(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace file %s: %w", path, err)
	}

	var doc traceFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing trace file %s: %w", path, err)
	}

	return &Trace{
		path:      path,
		Processes: doc.Processes,
	}, nil
}

// Path returns the path the trace was parsed from.
func (t *Trace) Path() string {
	return t.path
}

// Process returns the trace of the process with the given pid.
//
// If a trace contains two processes with the same pid, the first one found
// during a linear scan wins. That collision is an accepted risk of the trace
// format and is not guarded against.
func (t *Trace) Process(pid int) (*ProcessTrace, error) {
	for _, p := range t.Processes {
		if p.PID == pid {
			return p, nil
		}
	}

	return nil, fmt.Errorf("trace %s has no process with pid %d", t.path, pid)
}

// Close releases resources backing the process trace. Statistics must not be
// read after Close.
func (p *ProcessTrace) Close() error {
	p.closed = true
	p.Events = nil

	return nil
}
