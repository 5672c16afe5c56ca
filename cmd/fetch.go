package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/fetcher"
	"github.com/d2-nutrition/fao-cli/internal/runlog"
)

var (
	fetchURL    string
	fetchDir    string
	fetchMember string
	fetchForce  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract the FAO bulk archive",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if fetchURL == "" {
			fetchURL = cfg.Data.SourceURL
		}
		if fetchDir == "" {
			fetchDir = cfg.Data.Dir
		}
		cfg.Data.SourceURL = fetchURL
		cfg.Data.Dir = fetchDir
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		st, err := openRunlog(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runID, err := st.Start(ctx, "fetch", fetchURL, fetchDir)
		if err != nil {
			return err
		}

		result, err := runFetch(cmd)
		finishRun(ctx, st, runID, result, err)
		return err
	},
}

func runFetch(cmd *cobra.Command) (runlog.Result, error) {
	ctx := cmd.Context()
	var result runlog.Result

	if err := os.MkdirAll(fetchDir, 0o755); err != nil {
		return result, eris.Wrap(err, "fetch: create data dir")
	}

	u, err := url.Parse(fetchURL)
	if err != nil {
		return result, eris.Wrap(err, "fetch: parse url")
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return result, eris.Errorf("fetch: url %q has no file name", fetchURL)
	}
	archivePath := filepath.Join(fetchDir, name)

	changed, err := download(ctx, u, archivePath)
	if err != nil {
		return result, err
	}
	if !changed {
		zap.L().Info("source unchanged, skipping download", zap.String("url", fetchURL))
		fmt.Fprintln(cmd.OutOrStdout(), "Source unchanged; nothing to do.")
		return result, nil
	}

	if !strings.EqualFold(filepath.Ext(archivePath), ".zip") {
		zap.L().Info("source is not an archive, skipping extraction",
			zap.String("file", archivePath))
		return result, nil
	}

	extracted, total, err := extractArchive(archivePath)
	if err != nil {
		return result, err
	}
	result.RecordsWritten = int64(len(extracted))

	formatFetchReport(cmd.OutOrStdout(), extracted, total)
	return result, nil
}

// download fetches the source into archivePath. HTTP sources are conditional
// on the ETag stored beside the archive; FTP sources always download.
// Reports whether new content was written.
func download(ctx context.Context, u *url.URL, archivePath string) (bool, error) {
	log := zap.L().With(zap.String("component", "fetch"))

	if u.Scheme == "ftp" {
		f := fetcher.NewFTPFetcher(fetcher.FTPOptions{})
		n, err := f.DownloadToFile(ctx, u.String(), archivePath)
		if err != nil {
			return false, err
		}
		log.Info("downloaded", zap.String("url", u.String()), zap.Int64("bytes", n))
		return true, nil
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		RateLimiters: fetcher.DefaultRateLimiters(),
	})

	etagPath := archivePath + ".etag"
	etag := ""
	if !fetchForce {
		if raw, err := os.ReadFile(etagPath); err == nil {
			etag = strings.TrimSpace(string(raw))
		}
	}

	body, newETag, changed, err := f.DownloadIfChanged(ctx, u.String(), etag)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	defer body.Close() //nolint:errcheck

	file, err := os.Create(archivePath)
	if err != nil {
		return false, eris.Wrap(err, "fetch: create archive file")
	}
	n, err := io.Copy(file, body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return false, eris.Wrap(err, "fetch: write archive")
	}

	if newETag != "" {
		if err := os.WriteFile(etagPath, []byte(newETag), 0o644); err != nil {
			log.Warn("save etag failed", zap.Error(err))
		}
	}

	log.Info("downloaded", zap.String("url", u.String()), zap.Int64("bytes", n))
	return true, nil
}

// extractArchive unpacks the archive next to itself: every entry, or just
// --member when set.
func extractArchive(archivePath string) ([]string, int64, error) {
	destDir := filepath.Dir(archivePath)
	if fetchMember != "" {
		p, n, err := fetcher.ExtractZIPFile(archivePath, fetchMember, destDir)
		if err != nil {
			return nil, 0, err
		}
		return []string{p}, n, nil
	}
	return fetcher.ExtractZIP(archivePath, destDir)
}

func formatFetchReport(out io.Writer, extracted []string, total int64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tBYTES")
	_, _ = fmt.Fprintln(w, "----\t-----")
	for _, p := range extracted {
		size := int64(0)
		if info, err := os.Stat(p); err == nil {
			size = info.Size()
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\n", filepath.Base(p), size)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\n%d files, %d bytes extracted\n", len(extracted), total)
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "archive URL (default from config)")
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "data directory (default from config)")
	fetchCmd.Flags().StringVar(&fetchMember, "member", "", "extract only this archive member")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "download even when the stored ETag matches")
	rootCmd.AddCommand(fetchCmd)
}
