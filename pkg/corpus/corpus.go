// Package corpus merges ingested archives into a single logical corpus for
// analysis. Versions are enumerated across all added sources in insertion
// order; consumers read but never mutate them.
package corpus

import (
	"github.com/ethpandaops/regressoor/pkg/artifact"
	"github.com/sirupsen/logrus"
)

// Source is one ingested archive contributing artifacts to the corpus.
// Implemented by ingest.Source.
type Source interface {
	// ArchivePath identifies the source for diagnostics.
	ArchivePath() string
	// Settings returns the run settings the archive was recorded with.
	Settings() *artifact.RunSettings
	// Versions returns the version artifacts of the archive in order.
	Versions() []*artifact.Version
	// Close releases all resources owned by the source.
	Close() error
}

// Corpus aggregates one or more ingested archives.
type Corpus struct {
	log      logrus.FieldLogger
	sources  []Source
	settings *artifact.RunSettings
	versions []*artifact.Version
}

// New creates an empty corpus.
func New(log logrus.FieldLogger) *Corpus {
	return &Corpus{
		log: log.WithField("component", "corpus"),
	}
}

// Add appends one ingested source to the corpus.
//
// The run settings of the first source become the corpus settings. Later
// sources whose settings differ trigger a warning; no reconciliation is
// attempted and the first settings remain the record of truth.
func (c *Corpus) Add(src Source) {
	settings := src.Settings()

	if c.settings == nil {
		c.settings = settings
	} else if settings != nil && *settings != *c.settings {
		c.log.WithFields(logrus.Fields{
			"archive":  src.ArchivePath(),
			"settings": *settings,
			"kept":     *c.settings,
		}).Warn("Run settings differ between archives, keeping first")
	}

	c.sources = append(c.sources, src)
	c.versions = append(c.versions, src.Versions()...)
}

// Settings returns the corpus run settings, nil if no source was added.
func (c *Corpus) Settings() *artifact.RunSettings {
	return c.settings
}

// Versions returns all version artifacts across all sources in insertion
// order. The flat sequence is built eagerly at Add time; sources are small
// (a handful of variants each) so nothing is gained by deferring it.
// The returned slice is shared; callers must not mutate it.
func (c *Corpus) Versions() []*artifact.Version {
	return c.versions
}

// VariantNames returns the names of all versions in corpus order.
func (c *Corpus) VariantNames() []string {
	names := make([]string, 0, len(c.versions))
	for _, v := range c.versions {
		names = append(names, v.Variant.Name)
	}

	return names
}

// Close closes every contained source, best-effort.
func (c *Corpus) Close() error {
	for _, src := range c.sources {
		if err := src.Close(); err != nil {
			c.log.WithError(err).WithField("archive", src.ArchivePath()).
				Warn("Failed to close source")
		}
	}

	c.sources = nil

	return nil
}
