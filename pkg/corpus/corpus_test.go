package corpus

import (
	"testing"

	"github.com/ethpandaops/regressoor/pkg/artifact"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a Source stub for corpus tests.
type fakeSource struct {
	path     string
	settings *artifact.RunSettings
	versions []*artifact.Version
	closed   bool
}

func (f *fakeSource) ArchivePath() string             { return f.path }
func (f *fakeSource) Settings() *artifact.RunSettings { return f.settings }
func (f *fakeSource) Versions() []*artifact.Version   { return f.versions }

func (f *fakeSource) Close() error {
	f.closed = true

	return nil
}

func version(name string) *artifact.Version {
	return &artifact.Version{Variant: artifact.Variant{Name: name, Path: "/opt/" + name}}
}

func TestCorpus_Add(t *testing.T) {
	c := New(logrus.New())

	c.Add(&fakeSource{
		path:     "a.tar.gz",
		settings: &artifact.RunSettings{ServerGC: true},
		versions: []*artifact.Version{version("baseline"), version("candidate")},
	})
	c.Add(&fakeSource{
		path:     "b.tar.gz",
		settings: &artifact.RunSettings{ServerGC: true},
		versions: []*artifact.Version{version("experimental")},
	})

	require.NotNil(t, c.Settings())
	assert.True(t, c.Settings().ServerGC)

	// Versions enumerate across sources in insertion order.
	assert.Equal(t, []string{"baseline", "candidate", "experimental"}, c.VariantNames())
	assert.Len(t, c.Versions(), 3)
}

func TestCorpus_SettingsMismatch(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	c := New(logger)

	first := &artifact.RunSettings{ServerGC: true, ConcurrentGC: false}
	second := &artifact.RunSettings{ServerGC: false, ConcurrentGC: true}

	c.Add(&fakeSource{path: "a.tar.gz", settings: first, versions: []*artifact.Version{version("a")}})
	c.Add(&fakeSource{path: "b.tar.gz", settings: second, versions: []*artifact.Version{version("b")}})

	// First settings win; the mismatch is only warned about.
	assert.Equal(t, first, c.Settings())

	var warned bool

	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true

			assert.Contains(t, entry.Message, "Run settings differ")
		}
	}

	assert.True(t, warned, "expected a settings mismatch warning")
}

func TestCorpus_SettingsMatchNoWarning(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	c := New(logger)

	settings := &artifact.RunSettings{ServerGC: true}

	c.Add(&fakeSource{path: "a.tar.gz", settings: settings, versions: []*artifact.Version{version("a")}})
	c.Add(&fakeSource{path: "b.tar.gz", settings: &artifact.RunSettings{ServerGC: true}, versions: []*artifact.Version{version("b")}})

	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, entry.Level)
	}
}

func TestCorpus_Close(t *testing.T) {
	c := New(logrus.New())

	a := &fakeSource{path: "a.tar.gz", settings: &artifact.RunSettings{}}
	b := &fakeSource{path: "b.tar.gz", settings: &artifact.RunSettings{}}

	c.Add(a)
	c.Add(b)

	require.NoError(t, c.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestCorpus_Empty(t *testing.T) {
	c := New(logrus.New())

	assert.Nil(t, c.Settings())
	assert.Empty(t, c.Versions())
	assert.Empty(t, c.VariantNames())
	assert.NoError(t, c.Close())
}
