package ingest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildArchive writes a .tar.gz with the given files and returns its path.
func buildArchive(t *testing.T, files map[string]string) string {
	t.Helper()

	var buf bytes.Buffer

	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))

		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())

	path := filepath.Join(t.TempDir(), "results.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	return path
}

const testTrace = `{
	"processes": [
		{
			"pid": 4321,
			"name": "benchhost",
			"events": [
				{"number": 1, "generation": 0, "pause_msec": 1.5, "kind": "blocking",
				 "mechanisms": ["sweep"], "heap_size_mb": 64.0, "fragmentation_mb": 2.0}
			]
		}
	]
}`

// validArchiveFiles returns the file set of a minimal well-formed archive
// with two variants running one benchmark with one iteration each.
func validArchiveFiles() map[string]string {
	return map[string]string{
		"run.json":                  `{"server_gc": true, "concurrent_gc": true}`,
		"baseline/version.json":     `{"name": "baseline", "path": "/opt/runtime/v1"}`,
		"candidate/version.json":    `{"name": "candidate", "path": "/opt/runtime/v2"}`,
		"baseline/churn/benchmark.json": `{
			"name": "churn", "iterations": 1, "args": ["--size", "large"]
		}`,
		"candidate/churn/benchmark.json": `{
			"name": "churn", "iterations": 1, "args": ["--size", "large"]
		}`,
		"baseline/churn/0/result.json": `{
			"exit_code": 0, "pid": 4321, "duration_msec": 1000,
			"trace_path": "baseline/churn/0/trace.json"
		}`,
		"candidate/churn/0/result.json": `{
			"exit_code": 0, "pid": 4321, "duration_msec": 1200,
			"trace_path": "candidate/churn/0/trace.json"
		}`,
		"baseline/churn/0/trace.json":  testTrace,
		"candidate/churn/0/trace.json": testTrace,
	}
}

func TestIngest(t *testing.T) {
	archive := buildArchive(t, validArchiveFiles())

	src, err := Ingest(context.Background(), logrus.New(), archive)
	require.NoError(t, err)

	defer func() { require.NoError(t, src.Close()) }()

	assert.Equal(t, archive, src.ArchivePath())

	settings := src.Settings()
	require.NotNil(t, settings)
	assert.True(t, settings.ServerGC)
	assert.True(t, settings.ConcurrentGC)

	versions := src.Versions()
	require.Len(t, versions, 2)

	// Variant directories are enumerated in sorted order.
	assert.Equal(t, "baseline", versions[0].Variant.Name)
	assert.Equal(t, "candidate", versions[1].Variant.Name)

	require.Len(t, versions[0].Benchmarks, 1)

	bench := versions[0].Benchmarks[0]
	assert.Equal(t, "churn", bench.Name)
	assert.Equal(t, []string{"--size", "large"}, bench.Args)
	require.Len(t, bench.Runs, 1)

	iter := bench.Runs[0]
	assert.Equal(t, 0, iter.Index)
	assert.Equal(t, 4321, iter.PID)
	assert.Equal(t, time.Second, iter.Duration)
	require.NotNil(t, iter.ProcessTrace)
	assert.Equal(t, 4321, iter.ProcessTrace.PID)
	assert.Len(t, iter.ProcessTrace.Events, 1)
}

func TestIngest_IterationOrder(t *testing.T) {
	files := map[string]string{
		"run.json":              `{"server_gc": false, "concurrent_gc": false}`,
		"only/version.json":     `{"name": "only", "path": "/opt/runtime"}`,
		"only/churn/benchmark.json": `{
			"name": "churn", "iterations": 11
		}`,
	}

	// Iteration directories 0..10 sort numerically, not lexically.
	for _, idx := range []string{"0", "1", "2", "10"} {
		files["only/churn/"+idx+"/result.json"] = `{
			"exit_code": 0, "pid": 4321, "duration_msec": 100,
			"trace_path": "only/churn/` + idx + `/trace.json"
		}`
		files["only/churn/"+idx+"/trace.json"] = testTrace
	}

	archive := buildArchive(t, files)

	src, err := Ingest(context.Background(), logrus.New(), archive)
	require.NoError(t, err)

	defer func() { _ = src.Close() }()

	runs := src.Versions()[0].Benchmarks[0].Runs
	require.Len(t, runs, 4)

	indices := make([]int, 0, len(runs))
	for _, run := range runs {
		indices = append(indices, run.Index)
	}

	assert.Equal(t, []int{0, 1, 2, 10}, indices)
}

func TestIngest_Failures(t *testing.T) {
	t.Run("missing archive", func(t *testing.T) {
		_, err := Ingest(context.Background(), logrus.New(), filepath.Join(t.TempDir(), "nope.tar.gz"))
		assert.Error(t, err)
	})

	t.Run("missing run descriptor", func(t *testing.T) {
		files := validArchiveFiles()
		delete(files, "run.json")

		_, err := Ingest(context.Background(), logrus.New(), buildArchive(t, files))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run.json")
	})

	t.Run("missing trace file", func(t *testing.T) {
		files := validArchiveFiles()
		delete(files, "candidate/churn/0/trace.json")

		_, err := Ingest(context.Background(), logrus.New(), buildArchive(t, files))
		assert.Error(t, err)
	})

	t.Run("pid not in trace", func(t *testing.T) {
		files := validArchiveFiles()
		files["baseline/churn/0/result.json"] = `{
			"exit_code": 0, "pid": 9999, "duration_msec": 1000,
			"trace_path": "baseline/churn/0/trace.json"
		}`

		_, err := Ingest(context.Background(), logrus.New(), buildArchive(t, files))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pid 9999")
	})

	t.Run("no variants", func(t *testing.T) {
		files := map[string]string{
			"run.json": `{"server_gc": false, "concurrent_gc": false}`,
		}

		_, err := Ingest(context.Background(), logrus.New(), buildArchive(t, files))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no variant directories")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Ingest(ctx, logrus.New(), buildArchive(t, validArchiveFiles()))
		assert.Error(t, err)
	})
}

func TestExtractArchive_PathTraversal(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"../escape.txt": "nope",
	})

	_, err := extractArchive(context.Background(), archive, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entry")
}

func TestExtractArchive_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("not a gzip stream"), 0o644))

	_, err := extractArchive(context.Background(), path, t.TempDir())
	assert.Error(t, err)
}
