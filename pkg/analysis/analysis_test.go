package analysis

import (
	"testing"
	"time"

	"github.com/ethpandaops/regressoor/pkg/artifact"
	"github.com/ethpandaops/regressoor/pkg/corpus"
	"github.com/ethpandaops/regressoor/pkg/metric"
	"github.com/ethpandaops/regressoor/pkg/ttest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource feeds prebuilt versions into a corpus.
type fakeSource struct {
	settings *artifact.RunSettings
	versions []*artifact.Version
}

func (f *fakeSource) ArchivePath() string             { return "test.tar.gz" }
func (f *fakeSource) Settings() *artifact.RunSettings { return f.settings }
func (f *fakeSource) Versions() []*artifact.Version   { return f.versions }
func (f *fakeSource) Close() error                    { return nil }

func testCorpus(t *testing.T, versions ...*artifact.Version) *corpus.Corpus {
	t.Helper()

	c := corpus.New(logrus.New())
	c.Add(&fakeSource{
		settings: &artifact.RunSettings{ServerGC: true},
		versions: versions,
	})

	return c
}

func testRegistry() *metric.Registry {
	r := metric.NewRegistry()
	r.Register(metric.Definition{
		Name:      "duration_msec",
		Unit:      metric.UnitTime,
		Direction: metric.LowerIsBetter,
		Extract: func(i *artifact.Iteration) float64 {
			return float64(i.Duration) / float64(time.Millisecond)
		},
	})

	return r
}

// versionWithDurations builds one variant running one benchmark whose
// iterations took the given durations in milliseconds.
func versionWithDurations(name string, durations ...float64) *artifact.Version {
	bench := &artifact.Benchmark{Name: "churn", Iterations: len(durations)}
	for i, msec := range durations {
		bench.Runs = append(bench.Runs, &artifact.Iteration{
			Index:    i,
			Duration: time.Duration(msec * float64(time.Millisecond)),
		})
	}

	return &artifact.Version{
		Variant:    artifact.Variant{Name: name, Path: "/opt/" + name},
		Benchmarks: []*artifact.Benchmark{bench},
	}
}

func TestCompare(t *testing.T) {
	c := testCorpus(t,
		versionWithDurations("baseline", 100, 102, 98, 101, 99),
		versionWithDurations("candidate", 150, 152, 148, 151, 149),
	)

	result, err := Compare(logrus.New(), c, testRegistry(), "baseline", 0.05)
	require.NoError(t, err)

	assert.Equal(t, "baseline", result.Baseline.Name)
	assert.Equal(t, 0.05, result.PValue)
	require.NotNil(t, result.Settings)
	assert.True(t, result.Settings.ServerGC)

	require.Len(t, result.Variants, 1)
	require.Len(t, result.Variants[0].Benchmarks, 1)

	bc := result.Variants[0].Benchmarks[0]
	assert.Equal(t, "churn", bc.Name)
	require.Len(t, bc.Metrics, 1)

	m := bc.Metrics[0]
	assert.Equal(t, "duration_msec", m.Name)
	assert.Equal(t, ttest.Regression, m.Decision)
	assert.Equal(t, 5, m.Baseline.N)
	assert.Equal(t, 5, m.Candidate.N)
	assert.InDelta(t, 100.0, m.Baseline.Mean, 1e-9)
	assert.InDelta(t, 150.0, m.Candidate.Mean, 1e-9)
	assert.InDelta(t, 50.0, m.PercentChange, 1e-9)
}

func TestCompare_Indeterminate(t *testing.T) {
	c := testCorpus(t,
		versionWithDurations("baseline", 100, 102, 98, 101, 99),
		versionWithDurations("candidate", 101, 103, 99, 102, 100),
	)

	result, err := Compare(logrus.New(), c, testRegistry(), "baseline", 0.05)
	require.NoError(t, err)

	assert.Equal(t, ttest.Indeterminate, result.Variants[0].Benchmarks[0].Metrics[0].Decision)
}

func TestCompare_Improvement(t *testing.T) {
	c := testCorpus(t,
		versionWithDurations("baseline", 150, 152, 148, 151, 149),
		versionWithDurations("candidate", 100, 102, 98, 101, 99),
	)

	result, err := Compare(logrus.New(), c, testRegistry(), "baseline", 0.05)
	require.NoError(t, err)

	assert.Equal(t, ttest.Improvement, result.Variants[0].Benchmarks[0].Metrics[0].Decision)
}

func TestCompare_MultipleCandidates(t *testing.T) {
	c := testCorpus(t,
		versionWithDurations("slow", 150, 152, 148),
		versionWithDurations("baseline", 100, 102, 98),
		versionWithDurations("fast", 50, 52, 48),
	)

	result, err := Compare(logrus.New(), c, testRegistry(), "baseline", 0.05)
	require.NoError(t, err)

	// The baseline is excluded; candidates keep corpus order.
	require.Len(t, result.Variants, 2)
	assert.Equal(t, "slow", result.Variants[0].Variant.Name)
	assert.Equal(t, "fast", result.Variants[1].Variant.Name)

	assert.Equal(t, ttest.Regression, result.Variants[0].Benchmarks[0].Metrics[0].Decision)
	assert.Equal(t, ttest.Improvement, result.Variants[1].Benchmarks[0].Metrics[0].Decision)
}

func TestCompare_BaselineNotFound(t *testing.T) {
	c := testCorpus(t,
		versionWithDurations("baseline", 100),
		versionWithDurations("candidate", 100),
	)

	_, err := Compare(logrus.New(), c, testRegistry(), "nope", 0.05)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `baseline variant "nope" not found`)
	assert.Contains(t, err.Error(), "baseline, candidate")
}

func TestCompare_SuiteMismatch(t *testing.T) {
	baseline := versionWithDurations("baseline", 100)
	candidate := versionWithDurations("candidate", 100)
	candidate.Benchmarks = append(candidate.Benchmarks, &artifact.Benchmark{Name: "extra"})

	c := testCorpus(t, baseline, candidate)

	_, err := Compare(logrus.New(), c, testRegistry(), "baseline", 0.05)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suites must match")
}

func TestCompare_InvalidPValue(t *testing.T) {
	c := testCorpus(t, versionWithDurations("baseline", 100))

	_, err := Compare(logrus.New(), c, testRegistry(), "baseline", 0.123)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported p-value")
}

func TestSummarize(t *testing.T) {
	c := testCorpus(t, versionWithDurations("only", 100, 110, 120))

	result, err := Summarize(logrus.New(), c, testRegistry())
	require.NoError(t, err)

	assert.Equal(t, "only", result.Variant.Name)
	require.Len(t, result.Benchmarks, 1)
	require.Len(t, result.Benchmarks[0].Metrics, 1)

	m := result.Benchmarks[0].Metrics[0]
	assert.InDelta(t, 110.0, m.Mean, 1e-9)
	assert.InDelta(t, 10.0, m.Stddev, 1e-9)
	assert.Equal(t, 3, m.N)
}

func TestSummarize_RequiresSingleVariant(t *testing.T) {
	c := testCorpus(t,
		versionWithDurations("a", 100),
		versionWithDurations("b", 100),
	)

	_, err := Summarize(logrus.New(), c, testRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one variant")
	assert.Contains(t, err.Error(), "a, b")
}

func TestComparisonResult_JSONRoundTrip(t *testing.T) {
	c := testCorpus(t,
		versionWithDurations("baseline", 100, 102, 98),
		versionWithDurations("candidate", 150, 152, 148),
	)

	result, err := Compare(logrus.New(), c, testRegistry(), "baseline", 0.05)
	require.NoError(t, err)

	data, err := result.RenderJSON()
	require.NoError(t, err)

	parsed, err := ParseComparisonResult(data)
	require.NoError(t, err)

	assert.Equal(t, result, parsed)
}
