package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/d2-nutrition/fao-cli/internal/runlog"
)

func TestFormatLoadReport(t *testing.T) {
	result := runlog.Result{RowsRead: 3506000, RowsKept: 412000, RecordsWritten: 412000}

	var buf bytes.Buffer
	formatLoadReport(&buf, result, 4200*time.Millisecond)

	output := buf.String()
	assert.Contains(t, output, "ROWS READ")
	assert.Contains(t, output, "fao_observations")
	assert.Contains(t, output, "3506000")
	assert.Contains(t, output, "412000")
	assert.Contains(t, output, "loaded in 4.2s")
}
