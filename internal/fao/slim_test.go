package fao

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

const wideCSV = `Area Code,Area,Item Code,Item,Element Code,Element,Year Code,Year,Unit,Value,Flag,Flag Description
21,Brazil,2555,Soyabeans,5511,Production,2022,2022,1000 t,120.0,A,Official figure
21,Brazil,2555,Soyabeans,5511,Production,2021,2021,1000 t,,A,Official figure
79,Germany,2511,Wheat and products,5611,Import quantity,2015,2015,1000 t,n.a.,X,Estimated
`

func slimPaths(t *testing.T, raw string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "fbs.csv")
	require.NoError(t, os.WriteFile(in, []byte(raw), 0644))
	return in, filepath.Join(dir, "fbs_slim.csv")
}

func TestSlim(t *testing.T) {
	in, out := slimPaths(t, wideCSV)

	stats, err := Slim(in, out, "")
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Rows)
	assert.Equal(t, []string{"Area", "Item", "Element", "Year", "Unit", "Value", "Flag"}, stats.KeptColumns)
	assert.Equal(t, []string{"Area Code", "Item Code", "Element Code", "Year Code", "Flag Description"}, stats.DroppedColumns)
	assert.Greater(t, stats.OriginalBytes, stats.SlimBytes)
	assert.Greater(t, stats.Reduction(), 0.0)

	// Cell text is copied verbatim; empty and non-numeric values survive.
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want := `Area,Item,Element,Year,Unit,Value,Flag
Brazil,Soyabeans,Production,2022,1000 t,120.0,A
Brazil,Soyabeans,Production,2021,1000 t,,A
Germany,Wheat and products,Import quantity,2015,1000 t,n.a.,X
`
	assert.Equal(t, want, string(data))
}

func TestSlim_MissingCanonicalColumn(t *testing.T) {
	raw := "Area,Item,Element,Year,Unit,Value\nBrazil,Soyabeans,Production,2022,1000 t,120.0\n"
	in, out := slimPaths(t, raw)

	stats, err := Slim(in, out, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Area", "Item", "Element", "Year", "Unit", "Value"}, stats.KeptColumns)
	assert.Empty(t, stats.DroppedColumns)
	assert.Equal(t, int64(1), stats.Rows)
}

func TestSlim_NoCanonicalColumns(t *testing.T) {
	in, out := slimPaths(t, "Foo,Bar\n1,2\n")

	_, err := Slim(in, out, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no canonical columns")
}

func TestSlim_ShortRowsPadded(t *testing.T) {
	raw := "Area,Item,Element,Year,Unit,Value,Flag\nBrazil,Soyabeans,Production\n"
	in, out := slimPaths(t, raw)

	stats, err := Slim(in, out, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Rows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Area,Item,Element,Year,Unit,Value,Flag\nBrazil,Soyabeans,Production,,,,\n", string(data))
}

func TestSlim_Latin1(t *testing.T) {
	// "Côte d'Ivoire" in Latin-1 bytes; the slim copy is UTF-8.
	raw := "Area,Item,Element,Year,Unit,Value\nC\xf4te d'Ivoire,Yams,Production,2019,1000 t,7.3\n"
	in, out := slimPaths(t, raw)

	_, err := Slim(in, out, "latin1")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Côte d'Ivoire")
}

func TestSlim_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("FBS")
	require.NoError(t, err)

	addRow := func(cells ...string) {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	addRow("Area Code", "Area", "Item", "Element", "Year", "Unit", "Value", "Flag")
	addRow("21", "Brazil", "Soyabeans", "Production", "2022", "1000 t", "120.0", "A")

	dir := t.TempDir()
	in := filepath.Join(dir, "fbs.xlsx")
	require.NoError(t, f.Save(in))
	out := filepath.Join(dir, "fbs_slim.csv")

	stats, err := Slim(in, out, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Rows)
	assert.Equal(t, []string{"Area Code"}, stats.DroppedColumns)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Area,Item,Element,Year,Unit,Value,Flag\nBrazil,Soyabeans,Production,2022,1000 t,120.0,A\n", string(data))
}

func TestSlim_UnsupportedFormat(t *testing.T) {
	_, err := Slim("fbs.parquet", "out.csv", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported source format")
}

func TestSlim_OpenError(t *testing.T) {
	_, err := Slim(filepath.Join(t.TempDir(), "missing.csv"), "out.csv", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open source")
}

func TestSlimStats_Reduction(t *testing.T) {
	assert.Equal(t, 0.0, SlimStats{}.Reduction())
	assert.InDelta(t, 75.0, SlimStats{OriginalBytes: 1000, SlimBytes: 250}.Reduction(), 0.001)
}
