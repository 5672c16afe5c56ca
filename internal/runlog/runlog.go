// Package runlog records CLI runs so operators can audit what was built,
// from which source, and with what outcome.
package runlog

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Entry is one recorded run.
type Entry struct {
	ID             string     `json:"id"`
	Command        string     `json:"command"`
	Source         string     `json:"source,omitempty"`
	OutputDir      string     `json:"output_dir,omitempty"`
	Status         string     `json:"status"`
	RowsRead       int64      `json:"rows_read"`
	RowsKept       int64      `json:"rows_kept"`
	RecordsWritten int64      `json:"records_written"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// Result holds the figures recorded when a run completes.
type Result struct {
	RowsRead       int64
	RowsKept       int64
	RecordsWritten int64
}

// Store persists run entries.
type Store interface {
	Start(ctx context.Context, command, source, outputDir string) (string, error)
	Complete(ctx context.Context, id string, result Result) error
	Fail(ctx context.Context, id, errMsg string) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the run store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("runlog: unknown driver %q", driver)
	}
}
