package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "runlog: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	command         TEXT NOT NULL,
	source          TEXT NOT NULL DEFAULT '',
	output_dir      TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'running',
	rows_read       INTEGER NOT NULL DEFAULT 0,
	rows_kept       INTEGER NOT NULL DEFAULT 0,
	records_written INTEGER NOT NULL DEFAULT 0,
	error           TEXT,
	started_at      DATETIME NOT NULL,
	finished_at     DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "runlog: migrate sqlite")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Start(ctx context.Context, command, source, outputDir string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, source, output_dir, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, command, source, outputDir, StatusRunning, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "runlog: insert run")
	}
	return id, nil
}

func (s *SQLiteStore) Complete(ctx context.Context, id string, result Result) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs
		 SET status = ?, rows_read = ?, rows_kept = ?, records_written = ?, finished_at = ?
		 WHERE id = ?`,
		StatusCompleted, result.RowsRead, result.RowsKept, result.RecordsWritten, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: complete run %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) Fail(ctx context.Context, id, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		StatusFailed, errMsg, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: fail run %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, source, output_dir, status, rows_read, rows_kept,
		        records_written, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list runs")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var errStr sql.NullString
		var finished sql.NullTime
		if err := rows.Scan(&e.ID, &e.Command, &e.Source, &e.OutputDir, &e.Status,
			&e.RowsRead, &e.RowsKept, &e.RecordsWritten, &errStr, &e.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "runlog: scan run")
		}
		if errStr.Valid {
			e.Error = errStr.String
		}
		if finished.Valid {
			t := finished.Time
			e.FinishedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "runlog: iterate runs")
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "runlog: rows affected")
	}
	if n == 0 {
		return eris.Errorf("runlog: run not found: %s", id)
	}
	return nil
}
