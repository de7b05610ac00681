package artifact

import (
	"encoding/json"
	"fmt"
	"os"
)

// Descriptor file names inside an extracted archive.
const (
	RunDescriptorFile       = "run.json"
	VersionDescriptorFile   = "version.json"
	BenchmarkDescriptorFile = "benchmark.json"
	IterationResultFile     = "result.json"
)

// BenchmarkDescriptor is the on-disk benchmark configuration.
type BenchmarkDescriptor struct {
	Name        string            `json:"name"`
	Args        []string          `json:"args,omitempty"`
	Iterations  int               `json:"iterations"`
	Environment map[string]string `json:"environment,omitempty"`
}

// IterationResult is the on-disk result descriptor of one iteration.
// TracePath is relative to the archive root.
type IterationResult struct {
	ExitCode     int     `json:"exit_code"`
	PID          int     `json:"pid"`
	DurationMSec float64 `json:"duration_msec"`
	TracePath    string  `json:"trace_path"`
}

// ReadRunSettings reads a run settings descriptor from path.
func ReadRunSettings(path string) (*RunSettings, error) {
	var settings RunSettings
	if err := readDescriptor(path, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// ReadVariant reads a version descriptor from path.
func ReadVariant(path string) (*Variant, error) {
	var variant Variant
	if err := readDescriptor(path, &variant); err != nil {
		return nil, err
	}

	if variant.Name == "" {
		return nil, fmt.Errorf("version descriptor %s: name is required", path)
	}

	return &variant, nil
}

// ReadBenchmarkDescriptor reads a benchmark descriptor from path.
func ReadBenchmarkDescriptor(path string) (*BenchmarkDescriptor, error) {
	var desc BenchmarkDescriptor
	if err := readDescriptor(path, &desc); err != nil {
		return nil, err
	}

	if desc.Name == "" {
		return nil, fmt.Errorf("benchmark descriptor %s: name is required", path)
	}

	return &desc, nil
}

// ReadIterationResult reads an iteration result descriptor from path.
func ReadIterationResult(path string) (*IterationResult, error) {
	var result IterationResult
	if err := readDescriptor(path, &result); err != nil {
		return nil, err
	}

	if result.TracePath == "" {
		return nil, fmt.Errorf("iteration result %s: trace_path is required", path)
	}

	return &result, nil
}

// readDescriptor reads and unmarshals a JSON descriptor file.
func readDescriptor(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading descriptor %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing descriptor %s: %w", path, err)
	}

	return nil
}
