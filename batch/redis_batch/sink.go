package redis_batch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emptyOVO/flightmr/dataset"
)

const (
	scanCount    = 1000
	pipelineSize = 500
)

type SinkConfig struct {
	KeyPrefix string `json:"key_prefix"`
	Replace   bool   `json:"replace"`
}

func (c *SinkConfig) WithDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "flightmr:"
	}
}

// KeyFor is the hash key of the row at 1-based position rowNo of table name.
func (c SinkConfig) KeyFor(name string, rowNo int) string {
	return c.KeyPrefix + name + ":" + strconv.Itoa(rowNo)
}

// ImportTable stores each row of t as a hash keyed by table name and row
// number, one field per header column. With Replace every existing key of
// the table is deleted first. Rows are sent in pipelined batches.
func ImportTable(ctx context.Context, connCfg ConnConfig, cfg SinkConfig, t dataset.Table) error {
	cfg.WithDefaults()
	if t.Name == "" {
		return fmt.Errorf("table name is required")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(t.Header))
		}
	}
	rdb, err := openRedis(ctx, connCfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	if cfg.Replace {
		iter := rdb.Scan(ctx, 0, cfg.KeyPrefix+t.Name+":*", scanCount).Iterator()
		var stale []string
		for iter.Next(ctx) {
			stale = append(stale, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(stale) > 0 {
			if err := rdb.Del(ctx, stale...).Err(); err != nil {
				return err
			}
		}
	}

	pipe := rdb.Pipeline()
	for i, row := range t.Rows {
		fields := make([]interface{}, 0, 2*len(row))
		for j, v := range row {
			fields = append(fields, t.Header[j], v)
		}
		pipe.HSet(ctx, cfg.KeyFor(t.Name, i+1), fields...)
		if pipe.Len() == pipelineSize {
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
	}
	if pipe.Len() > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
