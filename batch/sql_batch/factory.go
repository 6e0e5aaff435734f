package sql_batch

import (
	"context"
	"database/sql"

	"github.com/emptyOVO/flightmr/dataset"
)

type SourceAdapter struct {
	cfg SourceConfig
}

func NewSourceAdapter(cfg SourceConfig) SourceAdapter {
	return SourceAdapter{cfg: cfg}
}

func (a SourceAdapter) Export(ctx context.Context, db *sql.DB) ([]dataset.Row, []dataset.Row, error) {
	return ExportSource(ctx, db, a.cfg)
}

type SinkAdapter struct {
	cfg SinkConfig
}

func NewSinkAdapter(cfg SinkConfig) SinkAdapter {
	return SinkAdapter{cfg: cfg}
}

// TableName is the SQL table a result named name lands in.
func (a SinkAdapter) TableName(name string) string {
	cfg := a.cfg
	cfg.WithDefaults()
	return cfg.TablePrefix + name
}

func (a SinkAdapter) Import(ctx context.Context, db *sql.DB, t dataset.Table) (string, error) {
	return ImportTable(ctx, db, a.cfg, t)
}
