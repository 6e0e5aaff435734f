package sql_batch

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/google/uuid"
)

// ImportTable writes one result table inside a transaction. Rows keep their
// order in row_no and every import is tagged with a fresh run_id. With
// Replace the previous contents are deleted first.
func ImportTable(ctx context.Context, db *sql.DB, cfg SinkConfig, t dataset.Table) (string, error) {
	cfg.WithDefaults()
	if t.Name == "" {
		return "", fmt.Errorf("table name is required")
	}
	table, err := quoteIdentifier(cfg.TablePrefix + t.Name)
	if err != nil {
		return "", err
	}
	cols := []string{"`run_id`", "`row_no`"}
	defs := []string{"`run_id` VARCHAR(36) NOT NULL", "`row_no` BIGINT NOT NULL"}
	for _, h := range t.Header {
		col, err := quoteIdentifier(columnName(h))
		if err != nil {
			return "", err
		}
		cols = append(cols, col)
		defs = append(defs, col+" VARCHAR(255) NOT NULL")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", table, strings.Join(defs, ",\n  "))); err != nil {
		return "", err
	}
	if cfg.Replace {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return "", err
		}
	}

	runID := uuid.New().String()
	if err := insertRows(ctx, tx, table, cols, runID, t, cfg.BatchSize); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, cols []string, runID string, t dataset.Table, batchSize int) error {
	rowSQL := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	batch := make([][]interface{}, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		args := make([]interface{}, 0, len(batch)*len(cols))
		valueSQL := make([]string, 0, len(batch))
		for _, row := range batch {
			valueSQL = append(valueSQL, rowSQL)
			args = append(args, row...)
		}
		sqlStr := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, strings.Join(cols, ", "), strings.Join(valueSQL, ","))
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for i, r := range t.Rows {
		if len(r) != len(t.Header) {
			return fmt.Errorf("row %d has %d fields, header has %d", i, len(r), len(t.Header))
		}
		row := make([]interface{}, 0, len(cols))
		row = append(row, runID, int64(i+1))
		for _, v := range r {
			row = append(row, v)
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
