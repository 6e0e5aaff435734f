package csv_batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/google/renameio/v2"
	log "github.com/sirupsen/logrus"
)

type SinkConfig struct {
	OutputDir string `json:"output_dir"`
}

func (c *SinkConfig) WithDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// PathFor is the file a table named name is written to.
func (c SinkConfig) PathFor(name string) string {
	c.WithDefaults()
	return filepath.Join(c.OutputDir, name+".csv")
}

// ImportTable writes t with its header to <OutputDir>/<name>.csv. The rows go
// to a pending file in the same directory which then replaces the target, so
// a failed write leaves the previous file in place.
func ImportTable(cfg SinkConfig, t dataset.Table) (string, error) {
	cfg.WithDefaults()
	if t.Name == "" {
		return "", fmt.Errorf("table name is required")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", err
	}
	target := cfg.PathFor(t.Name)
	pf, err := renameio.NewPendingFile(target, renameio.WithTempDir(cfg.OutputDir), renameio.WithPermissions(0o644))
	if err != nil {
		return "", err
	}
	defer pf.Cleanup()

	w := csv.NewWriter(pf)
	if err := w.Write(t.Header); err != nil {
		return "", err
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return "", fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(t.Header))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return "", err
	}
	log.WithField("rows", len(t.Rows)).Infof("[Sink] Wrote %s", target)
	return target, nil
}
