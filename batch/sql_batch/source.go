package sql_batch

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emptyOVO/flightmr/dataset"
)

// ExportSource reads the flight and airport tables as raw rows, every column
// rendered as text in table column order.
func ExportSource(ctx context.Context, db *sql.DB, cfg SourceConfig) ([]dataset.Row, []dataset.Row, error) {
	cfg.WithDefaults()
	flights, err := ExportTable(ctx, db, cfg.FlightsTable, cfg.OrderBy)
	if err != nil {
		return nil, nil, fmt.Errorf("export %s: %w", cfg.FlightsTable, err)
	}
	airports, err := ExportTable(ctx, db, cfg.AirportsTable, cfg.OrderBy)
	if err != nil {
		return nil, nil, fmt.Errorf("export %s: %w", cfg.AirportsTable, err)
	}
	return flights, airports, nil
}

// ExportTable reads every row of table. When orderBy is set the rows are
// sorted by that column and the column itself is left out of each row.
func ExportTable(ctx context.Context, db *sql.DB, table string, orderBy string) ([]dataset.Row, error) {
	qt, err := quoteIdentifier(table)
	if err != nil {
		return nil, err
	}
	querySQL := fmt.Sprintf("SELECT * FROM %s", qt)
	if orderBy != "" {
		col, err := quoteIdentifier(orderBy)
		if err != nil {
			return nil, err
		}
		querySQL += " ORDER BY " + col
	}

	rows, err := db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	skip := -1
	for i, c := range cols {
		if orderBy != "" && c == orderBy {
			skip = i
		}
	}
	var out []dataset.Row
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(dataset.Row, 0, len(cols))
		for i, v := range vals {
			if i == skip {
				continue
			}
			row = append(row, asString(v))
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
