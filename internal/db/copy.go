// Package db provides shared database helpers for bulk loading Postgres.
package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// ReplaceAll swaps the full contents of a table for the rows in src, inside
// a single transaction: TRUNCATE followed by COPY. If the COPY fails the
// truncate rolls back and the previous rows survive.
//
// src streams rows to the server, so callers can feed millions of rows
// without materializing a second copy.
func ReplaceAll(ctx context.Context, pool Pool, table string, columns []string, src pgx.CopyFromSource) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+sanitizeTable(table)); err != nil {
		return 0, eris.Wrapf(err, "db: replace: truncate %s", table)
	}

	n, err := tx.CopyFrom(ctx, tableIdent(table), columns, src)
	if err != nil {
		return 0, eris.Wrapf(err, "db: replace: COPY into %s", table)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}

	return n, nil
}

// tableIdent splits schema-qualified names like "fao.observations" into a
// two-part identifier.
func tableIdent(table string) pgx.Identifier {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}
	}
	return pgx.Identifier{table}
}
