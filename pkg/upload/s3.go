package upload

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ethpandaops/regressoor/pkg/config"
	"github.com/sirupsen/logrus"
)

// s3Uploader implements Uploader for S3-compatible storage.
type s3Uploader struct {
	log    logrus.FieldLogger
	cfg    *config.S3UploadConfig
	client *s3.Client
}

// Ensure interface compliance.
var _ Uploader = (*s3Uploader)(nil)

// NewS3Uploader creates an uploader for the configured bucket. Explicit
// credentials in the config take precedence over the ambient AWS credential
// chain; a custom endpoint with path-style addressing supports minio and
// other S3-compatible stores.
func NewS3Uploader(
	log logrus.FieldLogger,
	cfg *config.S3UploadConfig,
) (Uploader, error) {
	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		if o.Region == "" {
			o.Region = "us-east-1"
		}

		o.UsePathStyle = cfg.ForcePathStyle

		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}

		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, "",
			)
		}
	})

	return &s3Uploader{
		log:    log.WithField("component", "s3-uploader"),
		cfg:    cfg,
		client: client,
	}, nil
}

// Preflight writes a timestamped marker object under the report prefix so a
// misconfigured bucket fails the run before any analysis work is done.
func (u *s3Uploader) Preflight(ctx context.Context) error {
	key := u.resolveKey("write-check")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(time.Now().UTC().Format(time.RFC3339)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("write check for s3://%s/%s: %w", u.cfg.Bucket, key, err)
	}

	return nil
}

// UploadReport uploads a single report file under the configured prefix.
func (u *s3Uploader) UploadReport(ctx context.Context, localPath string) error {
	key := u.resolveKey(filepath.Base(localPath))

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	defer func() { _ = f.Close() }()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(detectContentType(localPath)),
	}

	if u.cfg.StorageClass != "" {
		input.StorageClass = s3types.StorageClass(u.cfg.StorageClass)
	}

	if u.cfg.ACL != "" {
		input.ACL = s3types.ObjectCannedACL(u.cfg.ACL)
	}

	u.log.WithFields(logrus.Fields{
		"key":    key,
		"bucket": u.cfg.Bucket,
	}).Debug("Uploading report")

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("PutObject: %w", err)
	}

	u.log.WithFields(logrus.Fields{
		"bucket": u.cfg.Bucket,
		"key":    key,
	}).Info("Report uploaded")

	return nil
}

// resolveKey builds the S3 object key for a report file. Report names are
// prefixed with a timestamp so repeated runs do not overwrite each other.
func (u *s3Uploader) resolveKey(baseName string) string {
	prefix := u.cfg.Prefix
	if prefix == "" {
		prefix = "reports"
	}

	stamp := time.Now().UTC().Format("20060102-150405")

	return strings.TrimRight(prefix, "/") + "/" + stamp + "-" + baseName
}

// detectContentType returns a MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	ct := mime.TypeByExtension(ext)
	if ct == "" {
		return "application/octet-stream"
	}

	return ct
}
