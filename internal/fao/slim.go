package fao

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// slimColumns is the canonical column set a slimmed file carries, in
// output order. Everything else in the source header is dropped.
var slimColumns = []string{"Area", "Item", "Element", "Year", "Unit", "Value", colFlag}

// SlimStats reports what a slim pass kept and shed.
type SlimStats struct {
	Rows           int64
	OriginalBytes  int64
	SlimBytes      int64
	KeptColumns    []string
	DroppedColumns []string
}

// Reduction returns the size saving as a percentage of the original file.
func (s SlimStats) Reduction() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	return float64(s.OriginalBytes-s.SlimBytes) / float64(s.OriginalBytes) * 100
}

// Slim writes a CSV copy of the export at inPath to outPath keeping only
// the canonical columns. Cell text and row order are preserved; no rows
// are parsed or filtered. Canonical columns missing from the source are
// logged and omitted. encoding names a source charset for CSV input
// ("latin1", "windows-1252", ...); empty means UTF-8. The output is
// always UTF-8.
func Slim(inPath, outPath, encoding string) (SlimStats, error) {
	header, next, cleanup, err := openRows(inPath, encoding)
	if err != nil {
		return SlimStats{}, err
	}
	defer cleanup()

	var (
		stats   SlimStats
		indices []int
	)
	colIdx := mapColumns(header)
	for _, col := range slimColumns {
		idx, ok := colIdx[strings.ToLower(col)]
		if !ok {
			zap.L().Warn("slim: canonical column missing from source", zap.String("column", col))
			continue
		}
		stats.KeptColumns = append(stats.KeptColumns, col)
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		return SlimStats{}, eris.Errorf("fao: slim: no canonical columns in %s", inPath)
	}
	kept := make(map[int]bool, len(indices))
	for _, idx := range indices {
		kept[idx] = true
	}
	for i, col := range header {
		if !kept[i] {
			stats.DroppedColumns = append(stats.DroppedColumns, trimQuotes(col))
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return SlimStats{}, eris.Wrap(err, "fao: create slim file")
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(stats.KeptColumns); err != nil {
		out.Close()
		return SlimStats{}, eris.Wrap(err, "fao: write slim header")
	}

	row := make([]string, len(indices))
	for {
		record, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return SlimStats{}, eris.Wrap(err, "fao: read source row")
		}
		for i, idx := range indices {
			if idx < len(record) {
				row[i] = record[idx]
			} else {
				row[i] = ""
			}
		}
		if err := writer.Write(row); err != nil {
			out.Close()
			return SlimStats{}, eris.Wrap(err, "fao: write slim row")
		}
		stats.Rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		out.Close()
		return SlimStats{}, eris.Wrap(err, "fao: flush slim file")
	}
	if err := out.Close(); err != nil {
		return SlimStats{}, eris.Wrap(err, "fao: close slim file")
	}

	if fi, err := os.Stat(inPath); err == nil {
		stats.OriginalBytes = fi.Size()
	}
	fi, err := os.Stat(outPath)
	if err != nil {
		return SlimStats{}, eris.Wrap(err, "fao: stat slim file")
	}
	stats.SlimBytes = fi.Size()

	zap.L().Info("slimmed source file",
		zap.Int64("rows", stats.Rows),
		zap.Int64("original_bytes", stats.OriginalBytes),
		zap.Int64("slim_bytes", stats.SlimBytes),
		zap.Int("columns_kept", len(stats.KeptColumns)),
		zap.Int("columns_dropped", len(stats.DroppedColumns)))
	return stats, nil
}

// openRows opens a .csv/.txt or .xlsx source and returns its header row,
// an iterator over the remaining rows (io.EOF at the end), and a cleanup
// function.
func openRows(path, encoding string) ([]string, func() ([]string, error), func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, nil, eris.Wrap(err, "fao: open source")
		}
		var r io.Reader = f
		if encoding != "" {
			r, err = decodeCharset(f, encoding)
			if err != nil {
				f.Close()
				return nil, nil, nil, err
			}
		}
		reader := csv.NewReader(r)
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = true
		reader.FieldsPerRecord = -1
		header, err := reader.Read()
		if err != nil {
			f.Close()
			return nil, nil, nil, eris.Wrap(err, "fao: read csv header")
		}
		return header, reader.Read, func() { f.Close() }, nil
	case ".xlsx":
		f, err := xlsx.OpenFile(path)
		if err != nil {
			return nil, nil, nil, eris.Wrap(err, "fao: open xlsx")
		}
		if len(f.Sheets) == 0 {
			return nil, nil, nil, eris.New("fao: xlsx has no sheets")
		}
		sheet := f.Sheets[0]
		if len(sheet.Rows) == 0 {
			return nil, nil, nil, eris.New("fao: xlsx sheet is empty")
		}
		i := 1
		next := func() ([]string, error) {
			if i >= len(sheet.Rows) {
				return nil, io.EOF
			}
			row := rowToStrings(sheet.Rows[i])
			i++
			return row, nil
		}
		return rowToStrings(sheet.Rows[0]), next, func() {}, nil
	default:
		return nil, nil, nil, eris.Errorf("fao: unsupported source format %q", filepath.Ext(path))
	}
}
