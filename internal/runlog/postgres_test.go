package runlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *PostgresStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresWithPool(mock)
}

func TestPostgres_Migrate(t *testing.T) {
	mock, st := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS fao_runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err := st.Migrate(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Start(t *testing.T) {
	mock, st := newMockStore(t)
	mock.ExpectExec("INSERT INTO fao_runs").
		WithArgs(pgxmock.AnyArg(), "build", "data/fbs.csv", "public/data/fao").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := st.Start(context.Background(), "build", "data/fbs.csv", "public/data/fao")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Complete(t *testing.T) {
	mock, st := newMockStore(t)
	mock.ExpectExec("UPDATE fao_runs").
		WithArgs(int64(1000), int64(800), int64(120), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.Complete(context.Background(), "run-1", Result{RowsRead: 1000, RowsKept: 800, RecordsWritten: 120})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteUnknownRun(t *testing.T) {
	mock, st := newMockStore(t)
	mock.ExpectExec("UPDATE fao_runs").
		WithArgs(int64(0), int64(0), int64(0), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.Complete(context.Background(), "missing", Result{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPostgres_Fail(t *testing.T) {
	mock, st := newMockStore(t)
	mock.ExpectExec("UPDATE fao_runs").
		WithArgs("download failed", "run-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.Fail(context.Background(), "run-2", "download failed")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_List(t *testing.T) {
	mock, st := newMockStore(t)

	started := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)
	rows := pgxmock.NewRows([]string{
		"id", "command", "source", "output_dir", "status",
		"rows_read", "rows_kept", "records_written", "error", "started_at", "finished_at",
	}).
		AddRow("run-2", "build", "data/fbs.csv", "public/data/fao", StatusCompleted,
			int64(1000), int64(800), int64(120), nil, started, &finished).
		AddRow("run-1", "fetch", "", "data", StatusFailed,
			int64(0), int64(0), int64(0), ptrString("timeout"), started.Add(-time.Hour), nil)

	mock.ExpectQuery("SELECT (.+) FROM fao_runs").
		WithArgs(20).
		WillReturnRows(rows)

	entries, err := st.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "run-2", entries[0].ID)
	assert.Equal(t, StatusCompleted, entries[0].Status)
	assert.Empty(t, entries[0].Error)
	require.NotNil(t, entries[0].FinishedAt)
	assert.Equal(t, finished, *entries[0].FinishedAt)

	assert.Equal(t, "run-1", entries[1].ID)
	assert.Equal(t, "timeout", entries[1].Error)
	assert.Nil(t, entries[1].FinishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListQueryError(t *testing.T) {
	mock, st := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM fao_runs").
		WithArgs(5).
		WillReturnError(errors.New("connection refused"))

	_, err := st.List(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list runs")
}

func ptrString(s string) *string {
	return &s
}
