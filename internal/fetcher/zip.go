package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractZIP extracts all files from a ZIP archive to the destination
// directory. Returns the extracted file paths and the total uncompressed
// bytes written.
func ExtractZIP(zipPath, destDir string) ([]string, int64, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, 0, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var extracted []string
	var total int64
	for _, f := range r.File {
		path, n, err := extractZIPEntry(f, destDir)
		if err != nil {
			return extracted, total, err
		}
		if path != "" {
			extracted = append(extracted, path)
			total += n
		}
	}

	return extracted, total, nil
}

// ExtractZIPFile extracts a single file from a ZIP archive by name.
// Returns the path to the extracted file and its uncompressed size.
func ExtractZIPFile(zipPath, fileName, destDir string) (string, int64, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", 0, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.Name == fileName {
			return extractZIPEntry(f, destDir)
		}
	}

	return "", 0, eris.Errorf("zip: file %q not found in archive", fileName)
}

// extractZIPEntry extracts a single zip.File to the destination directory.
// Returns the extracted file path and bytes written, or an empty path for
// directories.
func extractZIPEntry(f *zip.File, destDir string) (string, int64, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", 0, eris.Errorf("zip: illegal path %q (zip slip attempt)", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(destPath, 0o755); err != nil {
			return "", 0, eris.Wrap(err, "zip: create directory")
		}
		return "", 0, nil
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", 0, eris.Wrap(err, "zip: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", 0, eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", 0, eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, rc)
	if err != nil {
		return "", n, eris.Wrap(err, "zip: write file")
	}

	return destPath, n, nil
}
