// Package ingest unpacks one benchmark result archive into the in-memory
// artifact tree. The archive is extracted into an isolated temporary
// directory owned by the Ingester; the directory and all parsed trace handles
// are released when the Ingester is closed.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/docker/go-units"
	"github.com/ethpandaops/regressoor/pkg/artifact"
	"github.com/ethpandaops/regressoor/pkg/gctrace"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentVariants bounds the per-variant ingestion fan-out.
const maxConcurrentVariants = 4

// Source is one ingested archive: its run settings and the version artifacts
// it contained. Close must be called to release the extraction directory and
// every trace handle; it is safe to call exactly once, after all consumers
// are done with the artifact tree.
type Source struct {
	log         logrus.FieldLogger
	archivePath string
	tmpDir      string
	traces      []*gctrace.Trace

	settings *artifact.RunSettings
	versions []*artifact.Version
}

// Ingest extracts and ingests a single result archive.
//
// Any missing or unreadable descriptor, or a referenced trace file that is
// absent, fails the whole ingestion; no partial results are returned. On
// failure the temporary extraction directory is removed before returning.
func Ingest(ctx context.Context, log logrus.FieldLogger, archivePath string) (*Source, error) {
	tmpDir, err := os.MkdirTemp("", "regressoor-ingest-*")
	if err != nil {
		return nil, fmt.Errorf("creating extraction directory: %w", err)
	}

	src := &Source{
		log:         log.WithField("component", "ingest"),
		archivePath: archivePath,
		tmpDir:      tmpDir,
	}

	if err := src.run(ctx); err != nil {
		src.cleanup()

		return nil, err
	}

	return src, nil
}

// ArchivePath returns the path of the ingested archive.
func (s *Source) ArchivePath() string {
	return s.archivePath
}

// Settings returns the run settings the archive was recorded with.
func (s *Source) Settings() *artifact.RunSettings {
	return s.settings
}

// Versions returns the archive's version artifacts in deterministic
// (directory) order.
func (s *Source) Versions() []*artifact.Version {
	return s.versions
}

// run extracts the archive and builds the artifact tree.
func (s *Source) run(ctx context.Context) error {
	start := time.Now()

	written, err := extractArchive(ctx, s.archivePath, s.tmpDir)
	if err != nil {
		return fmt.Errorf("extracting archive: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"archive":  s.archivePath,
		"size":     units.HumanSize(float64(written)),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("Archive extracted")

	settings, err := artifact.ReadRunSettings(filepath.Join(s.tmpDir, artifact.RunDescriptorFile))
	if err != nil {
		return err
	}

	s.settings = settings

	variantDirs, err := s.listVariantDirs()
	if err != nil {
		return err
	}

	if len(variantDirs) == 0 {
		return fmt.Errorf("archive %s contains no variant directories", s.archivePath)
	}

	// Ingest variants in parallel. Each variant is independent; results are
	// placed by index so the final order matches the directory order.
	versions := make([]*artifact.Version, len(variantDirs))

	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentVariants)

	for i, dir := range variantDirs {
		i, dir := i, dir

		g.Go(func() error {
			version, traces, err := s.ingestVariant(gCtx, dir)
			if err != nil {
				return err
			}

			mu.Lock()
			versions[i] = version
			s.traces = append(s.traces, traces...)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.versions = versions

	s.log.WithFields(logrus.Fields{
		"archive":  s.archivePath,
		"variants": len(versions),
	}).Info("Archive ingested")

	return nil
}

// listVariantDirs returns the first-level directories of the extracted
// archive in sorted order. Each one is a tested variant.
func (s *Source) listVariantDirs() ([]string, error) {
	entries, err := os.ReadDir(s.tmpDir)
	if err != nil {
		return nil, fmt.Errorf("reading extraction directory: %w", err)
	}

	dirs := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(s.tmpDir, entry.Name()))
		}
	}

	sort.Strings(dirs)

	return dirs, nil
}

// ingestVariant builds one Version from a variant directory.
func (s *Source) ingestVariant(
	ctx context.Context, variantDir string,
) (*artifact.Version, []*gctrace.Trace, error) {
	variant, err := artifact.ReadVariant(filepath.Join(variantDir, artifact.VersionDescriptorFile))
	if err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(variantDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading variant directory %s: %w", variantDir, err)
	}

	version := &artifact.Version{Variant: *variant}

	var traces []*gctrace.Trace

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, traces, err
		}

		if !entry.IsDir() {
			continue
		}

		benchmark, benchTraces, err := s.ingestBenchmark(filepath.Join(variantDir, entry.Name()))
		if err != nil {
			return nil, traces, err
		}

		version.Benchmarks = append(version.Benchmarks, benchmark)
		traces = append(traces, benchTraces...)
	}

	s.log.WithFields(logrus.Fields{
		"variant":    variant.Name,
		"benchmarks": len(version.Benchmarks),
	}).Debug("Variant ingested")

	return version, traces, nil
}

// ingestBenchmark builds one Benchmark from a benchmark directory. Iteration
// subdirectories are named by zero-based index.
func (s *Source) ingestBenchmark(benchDir string) (*artifact.Benchmark, []*gctrace.Trace, error) {
	desc, err := artifact.ReadBenchmarkDescriptor(filepath.Join(benchDir, artifact.BenchmarkDescriptorFile))
	if err != nil {
		return nil, nil, err
	}

	benchmark := &artifact.Benchmark{
		Name:        desc.Name,
		Args:        desc.Args,
		Iterations:  desc.Iterations,
		Environment: desc.Environment,
	}

	entries, err := os.ReadDir(benchDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading benchmark directory %s: %w", benchDir, err)
	}

	indices := make([]int, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		idx, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		indices = append(indices, idx)
	}

	sort.Ints(indices)

	var traces []*gctrace.Trace

	for _, idx := range indices {
		iter, trace, err := s.ingestIteration(filepath.Join(benchDir, strconv.Itoa(idx)), idx)
		if err != nil {
			return nil, traces, err
		}

		benchmark.Runs = append(benchmark.Runs, iter)

		if trace != nil {
			traces = append(traces, trace)
		}
	}

	return benchmark, traces, nil
}

// ingestIteration reads one iteration result descriptor and resolves its
// trace by pid-match against the processes recorded in the trace file.
func (s *Source) ingestIteration(iterDir string, idx int) (*artifact.Iteration, *gctrace.Trace, error) {
	result, err := artifact.ReadIterationResult(filepath.Join(iterDir, artifact.IterationResultFile))
	if err != nil {
		return nil, nil, err
	}

	tracePath := filepath.Join(s.tmpDir, filepath.FromSlash(result.TracePath))

	trace, err := gctrace.Parse(tracePath)
	if err != nil {
		return nil, nil, err
	}

	proc, err := trace.Process(result.PID)
	if err != nil {
		return nil, trace, err
	}

	iter := &artifact.Iteration{
		Index:        idx,
		ExitCode:     result.ExitCode,
		PID:          result.PID,
		Duration:     time.Duration(result.DurationMSec * float64(time.Millisecond)),
		TracePath:    result.TracePath,
		ProcessTrace: proc,
	}

	return iter, trace, nil
}

// Close releases every trace handle and removes the temporary extraction
// directory. Cleanup is best-effort: failures are logged as warnings, never
// returned.
func (s *Source) Close() error {
	for _, version := range s.versions {
		_ = version.Close()
	}

	s.cleanup()

	return nil
}

// cleanup removes the temporary extraction directory. Trace handles must be
// closed first; they may hold open files inside the directory.
func (s *Source) cleanup() {
	s.traces = nil

	if s.tmpDir == "" {
		return
	}

	if err := os.RemoveAll(s.tmpDir); err != nil {
		s.log.WithError(err).WithField("dir", s.tmpDir).
			Warn("Failed to remove extraction directory")
	}

	s.tmpDir = ""
}
