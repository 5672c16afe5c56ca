package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/d2-nutrition/fao-cli/internal/runlog"
)

func TestFormatRunsList(t *testing.T) {
	started := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	finished := started.Add(2 * time.Minute)
	entries := []runlog.Entry{
		{
			ID:             "abc12345-6789-0000-0000-000000000000",
			Command:        "build",
			Source:         "FoodBalanceSheets_E_All_Data_(Normalized).csv",
			Status:         runlog.StatusCompleted,
			RowsRead:       3506000,
			RowsKept:       412000,
			RecordsWritten: 175,
			StartedAt:      started,
			FinishedAt:     &finished,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Command:   "fetch",
			Source:    "fbs.zip",
			Status:    runlog.StatusRunning,
			StartedAt: started.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, entries)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "COMMAND")
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "build")
	assert.Contains(t, output, "completed")
	assert.Contains(t, output, "3506000")
	assert.Contains(t, output, "2026-06-15 10:30")
	assert.Contains(t, output, "2m0s")

	// Long sources are truncated and unfinished runs show no duration.
	assert.NotContains(t, output, "(Normalized)")
	assert.Contains(t, output, "FoodBalanceSheets_E_All_Dat...")
	assert.Contains(t, output, "running")

	var runningLine string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "def12345") {
			runningLine = line
		}
	}
	assert.True(t, strings.HasSuffix(strings.TrimRight(runningLine, " "), "-"))
}

func TestFormatRunsList_Failed(t *testing.T) {
	started := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	finished := started.Add(5 * time.Second)
	entries := []runlog.Entry{
		{
			ID:         "a1b2c3d4-0000-0000-0000-000000000000",
			Command:    "load",
			Source:     "fbs.csv",
			Status:     runlog.StatusFailed,
			Error:      "load: ping postgres",
			StartedAt:  started,
			FinishedAt: &finished,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, entries)

	output := buf.String()
	assert.Contains(t, output, "a1b2c3d4")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "5s")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789-0000-0000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))
}
