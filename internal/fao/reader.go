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
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Canonical FAO column names. Header matching is case-insensitive; column
// order in the source file does not matter.
var requiredColumns = []string{"Area", "Item", "Element", "Year", "Unit", "Value"}

const colFlag = "Flag"

// ReadStats reports what a reader kept and dropped.
type ReadStats struct {
	RowsRead    int64
	RowsKept    int64
	RowsSkipped int64 // malformed rows and rows without a numeric Value
}

// ReadFile parses FAO observations from a local .csv or .xlsx file.
// encoding names a source charset for CSV files ("latin1", "windows-1252",
// ...); empty means UTF-8.
func ReadFile(path, encoding string) ([]Observation, ReadStats, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSVFile(path, encoding)
	case ".xlsx":
		return ReadXLSXFile(path)
	default:
		return nil, ReadStats{}, eris.Errorf("fao: unsupported source format %q", filepath.Ext(path))
	}
}

// ReadCSVFile opens path and parses it as an FAO CSV export.
func ReadCSVFile(path, encoding string) ([]Observation, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, eris.Wrap(err, "fao: open csv")
	}
	defer f.Close()

	var r io.Reader = f
	if encoding != "" {
		r, err = decodeCharset(f, encoding)
		if err != nil {
			return nil, ReadStats{}, err
		}
	}

	return ReadCSV(r)
}

// ReadCSV parses FAO observations from r. Malformed rows and rows whose
// Value is not numeric are skipped and counted, never zero-filled.
func ReadCSV(r io.Reader) ([]Observation, ReadStats, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, ReadStats{}, eris.Wrap(err, "fao: read csv header")
	}

	colIdx := mapColumns(header)
	if err := checkColumns(colIdx); err != nil {
		return nil, ReadStats{}, err
	}

	var (
		obs   []Observation
		stats ReadStats
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.RowsRead++
			stats.RowsSkipped++
			continue // skip malformed rows
		}
		stats.RowsRead++

		o, ok := recordToObservation(record, colIdx)
		if !ok {
			stats.RowsSkipped++
			continue
		}
		obs = append(obs, o)
		stats.RowsKept++
	}

	logReadStats("csv", stats)
	return obs, stats, nil
}

// ReadXLSXFile parses the first sheet of an FAO XLSX export. The first row
// must carry the column headers.
func ReadXLSXFile(path string) ([]Observation, ReadStats, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, ReadStats{}, eris.Wrap(err, "fao: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, ReadStats{}, eris.New("fao: xlsx has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, ReadStats{}, eris.New("fao: xlsx sheet is empty")
	}

	header := rowToStrings(sheet.Rows[0])
	colIdx := mapColumns(header)
	if err := checkColumns(colIdx); err != nil {
		return nil, ReadStats{}, err
	}

	var (
		obs   []Observation
		stats ReadStats
	)
	for _, row := range sheet.Rows[1:] {
		stats.RowsRead++
		o, ok := recordToObservation(rowToStrings(row), colIdx)
		if !ok {
			stats.RowsSkipped++
			continue
		}
		obs = append(obs, o)
		stats.RowsKept++
	}

	logReadStats("xlsx", stats)
	return obs, stats, nil
}

func recordToObservation(record []string, colIdx map[string]int) (Observation, bool) {
	year, ok := parseYear(getCol(record, colIdx, "year"))
	if !ok {
		return Observation{}, false
	}
	value, ok := parseValue(getCol(record, colIdx, "value"))
	if !ok {
		return Observation{}, false
	}

	area := trimQuotes(getCol(record, colIdx, "area"))
	item := trimQuotes(getCol(record, colIdx, "item"))
	if area == "" || item == "" {
		return Observation{}, false
	}

	return Observation{
		Area:    area,
		Item:    item,
		Element: trimQuotes(getCol(record, colIdx, "element")),
		Year:    year,
		Unit:    trimQuotes(getCol(record, colIdx, "unit")),
		Value:   value,
		Flag:    trimQuotes(getCol(record, colIdx, colFlag)),
	}, true
}

func checkColumns(colIdx map[string]int) error {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("fao: source is missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

// decodeCharset wraps r so its bytes are transcoded from the named charset
// to UTF-8. Names follow the WHATWG encoding registry ("latin1",
// "windows-1252", "utf-8", ...).
func decodeCharset(r io.Reader, name string) (io.Reader, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "fao: unknown charset %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func logReadStats(format string, stats ReadStats) {
	zap.L().Info("parsed source observations",
		zap.String("format", format),
		zap.Int64("rows_read", stats.RowsRead),
		zap.Int64("rows_kept", stats.RowsKept),
		zap.Int64("rows_skipped", stats.RowsSkipped))
}
