package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

func TestFormatSlimReport(t *testing.T) {
	stats := fao.SlimStats{
		Rows:           3506000,
		OriginalBytes:  412_000_000,
		SlimBytes:      198_000_000,
		KeptColumns:    []string{"Area", "Item", "Element", "Year", "Unit", "Value", "Flag"},
		DroppedColumns: []string{"Area Code", "Item Code", "Element Code", "Year Code", "Flag Description"},
	}

	var buf bytes.Buffer
	formatSlimReport(&buf, "fbs.csv", "fbs_slim.csv", stats)

	output := buf.String()
	assert.Contains(t, output, "fbs.csv")
	assert.Contains(t, output, "fbs_slim.csv")
	assert.Contains(t, output, "412000000")
	assert.Contains(t, output, "7 columns kept: Area, Item, Element, Year, Unit, Value, Flag")
	assert.Contains(t, output, "5 columns dropped: Area Code")
	assert.Contains(t, output, "3506000 rows copied; size reduced 51.9%")
}

func TestFormatSlimReport_NoDroppedColumns(t *testing.T) {
	stats := fao.SlimStats{
		Rows:          10,
		OriginalBytes: 1000,
		SlimBytes:     1000,
		KeptColumns:   []string{"Area", "Item", "Element", "Year", "Unit", "Value", "Flag"},
	}

	var buf bytes.Buffer
	formatSlimReport(&buf, "in.csv", "out.csv", stats)

	output := buf.String()
	assert.NotContains(t, output, "columns dropped")
	assert.Contains(t, output, "size reduced 0.0%")
}
