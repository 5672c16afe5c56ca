package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// ScanDir inventories the artifacts present in dir: per-file record counts
// and byte sizes in registration order, plus the newest modification time.
// Artifacts not yet built are skipped, not errors.
func ScanDir(dir string) ([]FileReport, time.Time, error) {
	var (
		files  []FileReport
		newest time.Time
	)
	for _, b := range NewRegistry().All() {
		path := filepath.Join(dir, b.Filename())
		fi, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, time.Time{}, eris.Wrapf(err, "artifact: stat %s", path)
		}

		records, err := countJSONRecords(path)
		if err != nil {
			return nil, time.Time{}, err
		}

		files = append(files, FileReport{
			Name:     b.Name(),
			Filename: b.Filename(),
			Records:  records,
			Bytes:    fi.Size(),
		})
		if fi.ModTime().After(newest) {
			newest = fi.ModTime()
		}
	}
	return files, newest, nil
}

// countJSONRecords counts the elements of a top-level JSON array without
// materializing it. A top-level object counts as one record.
func countJSONRecords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "artifact: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return 0, eris.Wrapf(err, "artifact: decode %s", path)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return 1, nil
	}

	n := 0
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return 0, eris.Wrapf(err, "artifact: decode %s", path)
		}
		n++
	}
	return n, nil
}
