// Package fetcher downloads FAO bulk archives over HTTP and FTP with
// per-host rate limiting, retries, and conditional (ETag) requests, and
// extracts the contained data files from ZIP archives.
package fetcher

import (
	"context"
	"io"
)

// Fetcher retrieves remote files.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	// The caller must close the returned ReadCloser.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path.
	// Returns the number of bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)

	// HeadETag performs a HEAD request and returns the ETag header value,
	// or an empty string when the server does not send one.
	HeadETag(ctx context.Context, url string) (string, error)

	// DownloadIfChanged fetches the URL only if its ETag differs from the
	// given one. Returns the body (nil when unchanged), the current ETag,
	// and whether the content changed.
	DownloadIfChanged(ctx context.Context, url string, etag string) (io.ReadCloser, string, bool, error)
}
