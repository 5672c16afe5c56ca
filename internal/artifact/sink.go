package artifact

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// backupFiles maps artifacts that keep a rollback copy of the previous run.
var backupFiles = map[string]string{
	"timeseries.json": "timeseries_backup.json",
}

// Sink writes artifact payloads under one output directory. Writes go
// through a temp file and rename so a failed run never leaves a torn
// artifact.
type Sink struct {
	dir string
}

func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// Dir returns the output directory.
func (s *Sink) Dir() string { return s.dir }

// Write encodes payload as indented JSON into name, backing up the previous
// copy first when the artifact carries one. It returns the encoded size.
func (s *Sink) Write(name string, payload any) (int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "artifact: create output dir %s", s.dir)
	}

	dest := filepath.Join(s.dir, name)
	if backup, ok := backupFiles[name]; ok {
		if err := s.backup(dest, filepath.Join(s.dir, backup)); err != nil {
			return 0, err
		}
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return 0, eris.Wrapf(err, "artifact: create temp for %s", name)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	// Artifacts are consumed by a browser dashboard; keep <, >, & literal.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		_ = tmp.Close()
		return 0, eris.Wrapf(err, "artifact: encode %s", name)
	}

	fi, err := tmp.Stat()
	if err != nil {
		_ = tmp.Close()
		return 0, eris.Wrapf(err, "artifact: stat temp for %s", name)
	}
	size := fi.Size()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return 0, eris.Wrapf(err, "artifact: chmod temp for %s", name)
	}
	if err := tmp.Close(); err != nil {
		return 0, eris.Wrapf(err, "artifact: close temp for %s", name)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return 0, eris.Wrapf(err, "artifact: replace %s", name)
	}
	return size, nil
}

// backup copies dest to backupPath when dest exists. The copy happens before
// the overwrite so the previous run stays recoverable.
func (s *Sink) backup(dest, backupPath string) error {
	src, err := os.Open(dest)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "artifact: open %s for backup", dest)
	}
	defer src.Close() //nolint:errcheck

	out, err := os.Create(backupPath)
	if err != nil {
		return eris.Wrapf(err, "artifact: create backup %s", backupPath)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "artifact: copy backup %s", backupPath)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "artifact: close backup %s", backupPath)
	}

	zap.L().Debug("backed up previous artifact",
		zap.String("file", dest),
		zap.String("backup", backupPath))
	return nil
}
