package batch

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emptyOVO/flightmr/batch/csv_batch"
	"github.com/emptyOVO/flightmr/batch/redis_batch"
	"github.com/emptyOVO/flightmr/batch/sql_batch"
	"github.com/emptyOVO/flightmr/dataset"
	log "github.com/sirupsen/logrus"
)

// ExportCSVSource reads the flights and airports files.
func ExportCSVSource(cfg CSVSourceConfig) ([]dataset.Row, []dataset.Row, error) {
	return csv_batch.ExportSource(cfg)
}

// ExportSQLSource reads the flights and airports tables.
func ExportSQLSource(ctx context.Context, db *sql.DB, cfg SQLSourceConfig) ([]dataset.Row, []dataset.Row, error) {
	return sql_batch.ExportSource(ctx, db, cfg)
}

// ImportTableToCSV writes t as <output_dir>/<name>.csv and returns the path.
func ImportTableToCSV(cfg CSVSinkConfig, t dataset.Table) (string, error) {
	return csv_batch.ImportTable(cfg, t)
}

// ImportTableToSQL writes t to a SQL table and returns the run id of the rows.
func ImportTableToSQL(ctx context.Context, db *sql.DB, cfg SQLSinkConfig, t dataset.Table) (string, error) {
	return sql_batch.ImportTable(ctx, db, cfg, t)
}

// ImportTableToRedis writes t as one hash per row.
func ImportTableToRedis(ctx context.Context, connCfg RedisConnConfig, cfg RedisSinkConfig, t dataset.Table) error {
	return redis_batch.ImportTable(ctx, connCfg, cfg, t)
}

func readSource(ctx context.Context, cfg FlowSourceConfig) ([]dataset.Row, []dataset.Row, error) {
	switch cfg.Type {
	case "csv":
		return ExportCSVSource(cfg.CSV)
	case "sql":
		db, err := openDB(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		return ExportSQLSource(ctx, db, cfg.SQL)
	default:
		return nil, nil, fmt.Errorf("unsupported source.type: %s", cfg.Type)
	}
}

// tableSink is an open output. The SQL sink holds one connection for the
// whole flow.
type tableSink interface {
	write(ctx context.Context, t dataset.Table) error
	close()
}

type csvSink struct {
	adapter csv_batch.SinkAdapter
}

func (s csvSink) write(_ context.Context, t dataset.Table) error {
	_, err := s.adapter.Import(t)
	return err
}

func (s csvSink) close() {}

type sqlSink struct {
	db      *sql.DB
	adapter sql_batch.SinkAdapter
}

func (s sqlSink) write(ctx context.Context, t dataset.Table) error {
	runID, err := s.adapter.Import(ctx, s.db, t)
	if err != nil {
		return err
	}
	log.WithField("run_id", runID).Infof("[Sink] Imported %s", s.adapter.TableName(t.Name))
	return nil
}

func (s sqlSink) close() { s.db.Close() }

type redisSink struct {
	adapter redis_batch.SinkAdapter
}

func (s redisSink) write(ctx context.Context, t dataset.Table) error {
	return s.adapter.Import(ctx, t)
}

func (s redisSink) close() {}

func openSink(ctx context.Context, cfg FlowSinkConfig) (tableSink, error) {
	switch cfg.Type {
	case "csv":
		return csvSink{adapter: csv_batch.NewSinkAdapter(cfg.CSV)}, nil
	case "sql":
		db, err := openDB(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return sqlSink{db: db, adapter: sql_batch.NewSinkAdapter(cfg.SQL)}, nil
	case "redis":
		return redisSink{adapter: redis_batch.NewSinkAdapter(cfg.Redis, cfg.RedisConfig)}, nil
	default:
		return nil, fmt.Errorf("unsupported sink.type: %s", cfg.Type)
	}
}
