package upload

import (
	"strings"
	"testing"

	"github.com/ethpandaops/regressoor/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3Uploader(t *testing.T) {
	uploader, err := NewS3Uploader(logrus.New(), &config.S3UploadConfig{
		Enabled: true,
		Bucket:  "reports",
		Region:  "eu-west-1",
	})
	require.NoError(t, err)
	assert.NotNil(t, uploader)
}

func TestResolveKey(t *testing.T) {
	t.Run("default prefix", func(t *testing.T) {
		u := &s3Uploader{cfg: &config.S3UploadConfig{}}

		key := u.resolveKey("report.json")
		assert.True(t, strings.HasPrefix(key, "reports/"), "key %q", key)
		assert.True(t, strings.HasSuffix(key, "-report.json"), "key %q", key)
	})

	t.Run("custom prefix with trailing slash", func(t *testing.T) {
		u := &s3Uploader{cfg: &config.S3UploadConfig{Prefix: "gc-analysis/"}}

		key := u.resolveKey("report.csv")
		assert.True(t, strings.HasPrefix(key, "gc-analysis/"), "key %q", key)
		assert.NotContains(t, key, "//")
	})
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "report.json", expected: "application/json"},
		{path: "report", expected: "application/octet-stream"},
		{path: "report.unknownext", expected: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectContentType(tt.path))
		})
	}
}
