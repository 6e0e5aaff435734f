package redis_batch

import (
	"context"

	"github.com/emptyOVO/flightmr/dataset"
)

type SinkAdapter struct {
	connCfg ConnConfig
	cfg     SinkConfig
}

func NewSinkAdapter(connCfg ConnConfig, cfg SinkConfig) SinkAdapter {
	return SinkAdapter{connCfg: connCfg, cfg: cfg}
}

func (a SinkAdapter) Import(ctx context.Context, t dataset.Table) error {
	return ImportTable(ctx, a.connCfg, a.cfg, t)
}
