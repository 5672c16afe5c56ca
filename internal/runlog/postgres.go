package runlog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/d2-nutrition/fao-cli/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with its own connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: parse postgres config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "runlog: ping postgres")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool; the caller keeps ownership of
// its lifecycle.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS fao_runs (
	id              UUID PRIMARY KEY,
	command         TEXT NOT NULL,
	source          TEXT NOT NULL DEFAULT '',
	output_dir      TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'running',
	rows_read       BIGINT NOT NULL DEFAULT 0,
	rows_kept       BIGINT NOT NULL DEFAULT 0,
	records_written BIGINT NOT NULL DEFAULT 0,
	error           TEXT,
	started_at      TIMESTAMPTZ NOT NULL,
	finished_at     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_fao_runs_started_at ON fao_runs (started_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "runlog: migrate postgres")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Start(ctx context.Context, command, source, outputDir string) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO fao_runs (id, command, source, output_dir, status, started_at)
		 VALUES ($1, $2, $3, $4, 'running', now())`,
		id, command, source, outputDir,
	)
	if err != nil {
		return "", eris.Wrap(err, "runlog: insert run")
	}
	return id, nil
}

func (s *PostgresStore) Complete(ctx context.Context, id string, result Result) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE fao_runs
		 SET status = 'completed', rows_read = $1, rows_kept = $2,
		     records_written = $3, finished_at = now()
		 WHERE id = $4`,
		result.RowsRead, result.RowsKept, result.RecordsWritten, id,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: complete run %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("runlog: run not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) Fail(ctx context.Context, id, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE fao_runs
		 SET status = 'failed', error = $1, finished_at = now()
		 WHERE id = $2`,
		errMsg, id,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: fail run %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("runlog: run not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, command, source, output_dir, status, rows_read, rows_kept,
		        records_written, error, started_at, finished_at
		 FROM fao_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list runs")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var errStr *string
		if err := rows.Scan(&e.ID, &e.Command, &e.Source, &e.OutputDir, &e.Status,
			&e.RowsRead, &e.RowsKept, &e.RecordsWritten, &errStr, &e.StartedAt, &e.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "runlog: scan run")
		}
		if errStr != nil {
			e.Error = *errStr
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "runlog: iterate runs")
}
