package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFetchReport(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "FoodBalanceSheets_E_All_Data_(Normalized).csv")
	flags := filepath.Join(dir, "FoodBalanceSheets_E_Flags.csv")
	require.NoError(t, os.WriteFile(data, []byte("Area,Item,Element,Year,Unit,Value,Flag\n"), 0644))
	require.NoError(t, os.WriteFile(flags, []byte("Flag,Description\n"), 0644))

	var buf bytes.Buffer
	formatFetchReport(&buf, []string{data, flags}, 56)

	output := buf.String()
	assert.Contains(t, output, "FILE")
	assert.Contains(t, output, "FoodBalanceSheets_E_All_Data_(Normalized).csv")
	assert.Contains(t, output, "FoodBalanceSheets_E_Flags.csv")
	assert.Contains(t, output, "39")
	assert.Contains(t, output, "2 files, 56 bytes extracted")
}

func TestFormatFetchReport_MissingFileSizesZero(t *testing.T) {
	var buf bytes.Buffer
	formatFetchReport(&buf, []string{"/nonexistent/fbs.csv"}, 0)

	output := buf.String()
	assert.Contains(t, output, "fbs.csv")
	assert.Contains(t, output, "1 files, 0 bytes extracted")
}
