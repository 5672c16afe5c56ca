// Package load persists FAO observations into Postgres for ad-hoc SQL
// analysis alongside the JSON artifacts.
package load

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/db"
	"github.com/d2-nutrition/fao-cli/internal/fao"
)

const (
	// Table is the target observation table.
	Table = "fao_observations"

	// batchSize bounds memory per upsert round trip.
	batchSize = 5000
)

var (
	columns      = []string{"area", "item", "element", "year", "unit", "value", "flag"}
	conflictKeys = []string{"area", "item", "element", "year"}
)

const migration = `
CREATE TABLE IF NOT EXISTS fao_observations (
	area    TEXT NOT NULL,
	item    TEXT NOT NULL,
	element TEXT NOT NULL,
	year    INTEGER NOT NULL,
	unit    TEXT NOT NULL DEFAULT '',
	value   DOUBLE PRECISION NOT NULL,
	flag    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (area, item, element, year)
);

CREATE INDEX IF NOT EXISTS idx_fao_observations_item_year ON fao_observations (item, year);
CREATE INDEX IF NOT EXISTS idx_fao_observations_element ON fao_observations (element);
`

// Loader upserts observations keyed on (area, item, element, year); a
// re-load of the same source replaces values instead of duplicating rows.
type Loader struct {
	pool db.Pool
}

// NewLoader creates a Loader over an open pool.
func NewLoader(pool db.Pool) *Loader {
	return &Loader{pool: pool}
}

// Migrate creates the observation table and its indexes.
func (l *Loader) Migrate(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, migration); err != nil {
		return eris.Wrap(err, "load: migrate")
	}
	return nil
}

// Load upserts the observations in batches and returns the affected row
// count.
func (l *Loader) Load(ctx context.Context, obs []fao.Observation) (int64, error) {
	log := zap.L().With(zap.String("component", "load"))

	var batch [][]any
	var total int64

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := db.BulkUpsert(ctx, l.pool, db.UpsertConfig{
			Table:        Table,
			Columns:      columns,
			ConflictKeys: conflictKeys,
		}, batch)
		if err != nil {
			return eris.Wrap(err, "load: bulk upsert")
		}
		total += n
		batch = batch[:0]
		return nil
	}

	for _, o := range obs {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		batch = append(batch, []any{o.Area, o.Item, o.Element, int32(o.Year), o.Unit, o.Value, o.Flag})
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	log.Info("loaded observations", zap.Int64("rows", total))
	return total, nil
}

// Replace truncates the observation table and reloads it in one COPY, all
// inside a single transaction. Faster than Load when rebuilding from a full
// dump. An empty slice is a no-op; the existing rows stay.
func (l *Loader) Replace(ctx context.Context, obs []fao.Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	src := pgx.CopyFromSlice(len(obs), func(i int) ([]any, error) {
		o := obs[i]
		return []any{o.Area, o.Item, o.Element, int32(o.Year), o.Unit, o.Value, o.Flag}, nil
	})

	n, err := db.ReplaceAll(ctx, l.pool, Table, columns, src)
	if err != nil {
		return 0, eris.Wrap(err, "load: replace")
	}

	zap.L().With(zap.String("component", "load")).Info("replaced observations", zap.Int64("rows", n))
	return n, nil
}
