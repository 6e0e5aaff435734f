package csv_batch

import (
	"fmt"
	"path/filepath"

	"github.com/emptyOVO/flightmr/dataset"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultFlightsFile  = "AComp_Passenger_data.csv"
	DefaultAirportsFile = "Top30_airports_LatLong.csv"
)

// SourceConfig locates the two input files. Relative file names are resolved
// against Dir.
type SourceConfig struct {
	Dir      string `json:"dir"`
	Flights  string `json:"flights"`
	Airports string `json:"airports"`
}

func (c *SourceConfig) WithDefaults() {
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.Flights == "" {
		c.Flights = DefaultFlightsFile
	}
	if c.Airports == "" {
		c.Airports = DefaultAirportsFile
	}
}

func (c SourceConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// FlightsPath is the resolved flights file.
func (c SourceConfig) FlightsPath() string {
	c.WithDefaults()
	return c.resolve(c.Flights)
}

// AirportsPath is the resolved airports file.
func (c SourceConfig) AirportsPath() string {
	c.WithDefaults()
	return c.resolve(c.Airports)
}

// ExportSource reads both input files as raw rows.
func ExportSource(cfg SourceConfig) ([]dataset.Row, []dataset.Row, error) {
	flightsPath, airportsPath := cfg.FlightsPath(), cfg.AirportsPath()
	flights, err := dataset.ReadFile(flightsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read flights: %w", err)
	}
	airports, err := dataset.ReadFile(airportsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read airports: %w", err)
	}
	log.WithFields(log.Fields{
		"flights":  len(flights),
		"airports": len(airports),
	}).Debugf("[Source] Read %s and %s", flightsPath, airportsPath)
	return flights, airports, nil
}
