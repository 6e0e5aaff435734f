package sql_batch

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "flightmr.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestColumnName(t *testing.T) {
	require.Equal(t, "flight_id", columnName("Flight ID"))
	require.Equal(t, "departure_time", columnName(" Departure Time "))
	require.Equal(t, "passengers", columnName("Passengers"))
}

func TestQuoteIdentifier(t *testing.T) {
	q, err := quoteIdentifier("flightmr_t1")
	require.NoError(t, err)
	require.Equal(t, "`flightmr_t1`", q)
	_, err = quoteIdentifier("t1; DROP TABLE x")
	require.Error(t, err)
}

func TestExportSource(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	stmts := []string{
		`CREATE TABLE passenger_flights (id INTEGER, passenger TEXT, flight TEXT, dep TEXT, arr TEXT, epoch INTEGER, mins INTEGER)`,
		`INSERT INTO passenger_flights VALUES (2, 'P2', 'ABC1234D', 'SYD', 'MEL', 1893456000, 90)`,
		`INSERT INTO passenger_flights VALUES (1, 'P1', 'ABC1234D', 'SYD', 'MEL', 1893456000, 90)`,
		`CREATE TABLE airports (id INTEGER, name TEXT, code TEXT)`,
		`INSERT INTO airports VALUES (1, 'Sydney', 'SYD')`,
	}
	for _, s := range stmts {
		_, err := db.ExecContext(ctx, s)
		require.NoError(t, err)
	}

	flights, airports, err := NewSourceAdapter(SourceConfig{OrderBy: "id"}).Export(ctx, db)
	require.NoError(t, err)
	require.Equal(t, []dataset.Row{
		{"P1", "ABC1234D", "SYD", "MEL", "1893456000", "90"},
		{"P2", "ABC1234D", "SYD", "MEL", "1893456000", "90"},
	}, flights)
	require.Equal(t, []dataset.Row{{"Sydney", "SYD"}}, airports)
}

func TestExportTableRejectsBadIdentifier(t *testing.T) {
	_, err := ExportTable(context.Background(), openTestDB(t), "bad name", "")
	require.Error(t, err)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestImportTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tbl := dataset.Table{
		Name:   "t3",
		Header: []string{"Flight ID", "Passengers"},
		Rows:   [][]string{{"ABC1234D", "2"}, {"XYZ0001A", "3"}},
	}
	sink := NewSinkAdapter(SinkConfig{BatchSize: 1})
	require.Equal(t, "flightmr_t3", sink.TableName("t3"))

	runID, err := sink.Import(ctx, db, tbl)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	rows, err := db.Query("SELECT flight_id, passengers FROM flightmr_t3 WHERE run_id = ? ORDER BY row_no", runID)
	require.NoError(t, err)
	var got [][]string
	for rows.Next() {
		var id, n string
		require.NoError(t, rows.Scan(&id, &n))
		got = append(got, []string{id, n})
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	require.Equal(t, tbl.Rows, got)

	// append keeps the earlier run, replace drops it
	_, err = sink.Import(ctx, db, tbl)
	require.NoError(t, err)
	require.Equal(t, 4, countRows(t, db, "flightmr_t3"))

	_, err = NewSinkAdapter(SinkConfig{Replace: true}).Import(ctx, db, tbl)
	require.NoError(t, err)
	require.Equal(t, 2, countRows(t, db, "flightmr_t3"))
}

func TestImportTableRejectsRaggedRows(t *testing.T) {
	db := openTestDB(t)
	tbl := dataset.Table{Name: "t1", Header: []string{"Airport", "Departures"}, Rows: [][]string{{"SYDNEY"}}}
	_, err := ImportTable(context.Background(), db, SinkConfig{}, tbl)
	require.Error(t, err)
}
