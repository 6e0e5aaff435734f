package csv_batch

import "github.com/emptyOVO/flightmr/dataset"

type SourceAdapter struct {
	cfg SourceConfig
}

func NewSourceAdapter(cfg SourceConfig) SourceAdapter {
	return SourceAdapter{cfg: cfg}
}

func (a SourceAdapter) Export() ([]dataset.Row, []dataset.Row, error) {
	return ExportSource(a.cfg)
}

// Paths lists the files the source reads, flights first.
func (a SourceAdapter) Paths() []string {
	return []string{a.cfg.FlightsPath(), a.cfg.AirportsPath()}
}

type SinkAdapter struct {
	cfg SinkConfig
}

func NewSinkAdapter(cfg SinkConfig) SinkAdapter {
	return SinkAdapter{cfg: cfg}
}

func (a SinkAdapter) Import(t dataset.Table) (string, error) {
	return ImportTable(a.cfg, t)
}
