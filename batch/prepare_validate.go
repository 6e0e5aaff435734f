package batch

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PrepareSyntheticSource creates and fills the airports and flights source
// tables for benchmarking. Every generated row passes validation, each flight
// leaves from one of the generated airports, and its passengers are distinct.
func PrepareSyntheticSource(ctx context.Context, db *sql.DB, cfg PrepareConfig) error {
	cfg.withDefaults()
	airportsTable, err := quoteIdentifier(cfg.AirportsTable)
	if err != nil {
		return err
	}
	flightsTable, err := quoteIdentifier(cfg.FlightsTable)
	if err != nil {
		return err
	}

	for _, stmt := range []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, airportsTable),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, flightsTable),
		fmt.Sprintf(`
CREATE TABLE %s (
  id BIGINT NOT NULL,
  name VARCHAR(64) NOT NULL,
  code VARCHAR(3) NOT NULL,
  PRIMARY KEY (id)
)`, airportsTable),
		fmt.Sprintf(`
CREATE TABLE %s (
  id BIGINT NOT NULL,
  passenger_id VARCHAR(16) NOT NULL,
  flight_id VARCHAR(8) NOT NULL,
  from_code VARCHAR(3) NOT NULL,
  to_code VARCHAR(3) NOT NULL,
  departure_epoch BIGINT NOT NULL,
  duration_minutes INT NOT NULL,
  PRIMARY KEY (id)
)`, flightsTable),
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	codes := make([]string, cfg.Airports)
	airportRows := make([][]interface{}, cfg.Airports)
	for i := range codes {
		codes[i] = syntheticCode(i)
		airportRows[i] = []interface{}{int64(i + 1), "AIRPORT" + codes[i], codes[i]}
	}
	if err := insertBatches(ctx, db, airportsTable, []string{"id", "name", "code"}, airportRows); err != nil {
		return err
	}

	const batchSize = 5000
	cols := []string{"id", "passenger_id", "flight_id", "from_code", "to_code", "departure_epoch", "duration_minutes"}
	batch := make([][]interface{}, 0, batchSize)
	id := int64(0)
	for f := 0; f < cfg.Flights; f++ {
		flightID := fmt.Sprintf("SYN%04d%c", f%10000, 'A'+rune(f/10000%26))
		from := codes[f%len(codes)]
		to := codes[(f+1)%len(codes)]
		epoch := cfg.BaseEpoch + int64(f)*3600
		minutes := 60 + f%300
		for p := 0; p < cfg.Passengers; p++ {
			id++
			batch = append(batch, []interface{}{id, fmt.Sprintf("PAS%09d", id), flightID, from, to, epoch, minutes})
			if len(batch) == batchSize {
				if err := insertBatches(ctx, db, flightsTable, cols, batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}
	return insertBatches(ctx, db, flightsTable, cols, batch)
}

// syntheticCode maps i onto a three letter code, AAA, AAB, ...
func syntheticCode(i int) string {
	b := []byte{'A', 'A', 'A'}
	for pos := 2; pos >= 0; pos-- {
		b[pos] = byte('A' + i%26)
		i /= 26
	}
	return string(b)
}

func insertBatches(ctx context.Context, db *sql.DB, table string, cols []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	rowSQL := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	placeholders := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*len(cols))
	for _, r := range rows {
		placeholders = append(placeholders, rowSQL)
		args = append(args, r...)
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ","),
	)
	_, err := db.ExecContext(ctx, insertSQL, args...)
	return err
}

// ValidateAggregation checks that the passenger count table matches a
// GROUP BY count over the source table. The source is assumed to hold no
// rows the validator would drop.
func ValidateAggregation(ctx context.Context, db *sql.DB, cfg ValidateConfig) error {
	cfg.withDefaults()
	if cfg.SourceTable == "" || cfg.TargetTable == "" {
		return fmt.Errorf("source table and target table are required")
	}

	srcTable, err := quoteIdentifier(cfg.SourceTable)
	if err != nil {
		return err
	}
	srcKey, err := quoteIdentifier(cfg.SourceKey)
	if err != nil {
		return err
	}
	tgtTable, err := quoteIdentifier(cfg.TargetTable)
	if err != nil {
		return err
	}
	tgtKey, err := quoteIdentifier(cfg.TargetKey)
	if err != nil {
		return err
	}
	tgtVal, err := quoteIdentifier(cfg.TargetVal)
	if err != nil {
		return err
	}

	expectedSQL := fmt.Sprintf(`
SELECT %s, COUNT(*) AS total
FROM %s
GROUP BY %s
ORDER BY %s`, srcKey, srcTable, srcKey, srcKey)
	actualSQL := fmt.Sprintf(`
SELECT %s, %s
FROM %s`, tgtKey, tgtVal, tgtTable)
	var actualArgs []interface{}
	if cfg.RunID != "" {
		actualSQL += "\nWHERE `run_id` = ?"
		actualArgs = append(actualArgs, cfg.RunID)
	}
	actualSQL += fmt.Sprintf("\nORDER BY %s", tgtKey)

	expected, err := queryCounts(ctx, db, expectedSQL)
	if err != nil {
		return err
	}
	actual, err := queryCounts(ctx, db, actualSQL, actualArgs...)
	if err != nil {
		return err
	}
	if len(expected) != len(actual) {
		return fmt.Errorf("row count mismatch in validation: expected %d, actual %d", len(expected), len(actual))
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return fmt.Errorf("validation mismatch at row %d: expected (%s,%d), actual (%s,%d)",
				i+1, expected[i].key, expected[i].n, actual[i].key, actual[i].n)
		}
	}
	return nil
}

type keyCount struct {
	key string
	n   int64
}

func queryCounts(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]keyCount, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []keyCount
	for rows.Next() {
		var kc keyCount
		if err := rows.Scan(&kc.key, &kc.n); err != nil {
			return nil, err
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}
