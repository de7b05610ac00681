package ingest

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractArchive extracts a .tar.gz archive into targetDir. Entry paths are
// sanitized to prevent directory traversal. Returns the total number of bytes
// written.
func extractArchive(ctx context.Context, archivePath, targetDir string) (int64, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}

	defer func() { _ = f.Close() }()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("reading archive %s: %w", archivePath, err)
	}

	defer func() { _ = gzr.Close() }()

	tr := tar.NewReader(gzr)

	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		header, err := tr.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return written, fmt.Errorf("reading archive %s: %w", archivePath, err)
		}

		// Sanitize path to prevent directory traversal.
		target := filepath.Join(targetDir, filepath.Clean(header.Name))
		if !strings.HasPrefix(target, filepath.Clean(targetDir)+string(os.PathSeparator)) {
			return written, fmt.Errorf("archive %s: invalid entry %q", archivePath, header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return written, fmt.Errorf("creating directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return written, fmt.Errorf("creating parent directory: %w", err)
			}

			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return written, fmt.Errorf("creating file: %w", err)
			}

			n, err := io.Copy(out, tr)
			if err != nil {
				_ = out.Close()

				return written, fmt.Errorf("extracting %s: %w", header.Name, err)
			}

			written += n

			_ = out.Close()
		}
	}

	return written, nil
}
