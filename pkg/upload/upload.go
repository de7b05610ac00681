// Package upload pushes written analysis reports to remote storage.
package upload

import "context"

// Uploader uploads a local report file to remote storage.
type Uploader interface {
	// Preflight verifies that the remote storage is reachable and writable.
	// Writes a small test object to the bucket to fail fast on misconfiguration.
	Preflight(ctx context.Context) error

	// UploadReport uploads a single report file. The file basename is used as
	// the object name under the configured remote prefix.
	UploadReport(ctx context.Context, localPath string) error
}
