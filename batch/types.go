package batch

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/emptyOVO/flightmr/batch/csv_batch"
	"github.com/emptyOVO/flightmr/batch/redis_batch"
	"github.com/emptyOVO/flightmr/batch/sql_batch"
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DBConfig defines SQL connection parameters. MySQL uses the network fields,
// SQLite only Path.
type DBConfig struct {
	Driver   string            `json:"driver"`
	Host     string            `json:"host"`
	Port     int               `json:"port"`
	User     string            `json:"user"`
	Password string            `json:"password"`
	Database string            `json:"database"`
	Path     string            `json:"path"`
	Params   map[string]string `json:"params"`
}

func (c DBConfig) driver() string {
	if c.Driver == "" {
		return DriverMySQL
	}
	return strings.ToLower(c.Driver)
}

func (c DBConfig) dsn() string {
	if c.driver() == DriverSQLite {
		return c.Path
	}
	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port == 0 {
		port = 3306
	}
	params := map[string]string{
		"charset": "utf8mb4",
	}
	for k, v := range c.Params {
		params[k] = v
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.User,
		c.Password,
		host,
		port,
		c.Database,
		strings.Join(parts, "&"),
	)
}

func (c DBConfig) validate() error {
	switch c.driver() {
	case DriverMySQL:
		if c.User == "" {
			return fmt.Errorf("db user is required")
		}
		if c.Database == "" {
			return fmt.Errorf("db database is required")
		}
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("db path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported db driver: %s", c.Driver)
	}
	return nil
}

func openDB(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.driver(), cfg.dsn())
	if err != nil {
		return nil, err
	}
	if cfg.driver() == DriverSQLite {
		// a single writer avoids SQLITE_BUSY inside the sink transaction
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenForApp opens a database connection for custom flows and tooling.
func OpenForApp(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	return openDB(ctx, cfg)
}

func quoteIdentifier(s string) (string, error) {
	if !identifierRe.MatchString(s) {
		return "", fmt.Errorf("invalid identifier: %s", s)
	}
	return "`" + s + "`", nil
}

// Unified source/sink config aliases exposed by batch package.
type CSVSourceConfig = csv_batch.SourceConfig
type CSVSinkConfig = csv_batch.SinkConfig
type SQLSourceConfig = sql_batch.SourceConfig
type SQLSinkConfig = sql_batch.SinkConfig
type RedisConnConfig = redis_batch.ConnConfig
type RedisSinkConfig = redis_batch.SinkConfig

// PrepareConfig configures synthetic source tables for benchmarking.
type PrepareConfig struct {
	FlightsTable  string
	AirportsTable string
	Airports      int
	Flights       int
	// Passengers is the number of passenger rows per flight.
	Passengers int
	BaseEpoch  int64
}

func (c *PrepareConfig) withDefaults() {
	if c.FlightsTable == "" {
		c.FlightsTable = "passenger_flights"
	}
	if c.AirportsTable == "" {
		c.AirportsTable = "airports"
	}
	if c.Airports <= 0 {
		c.Airports = 30
	}
	if c.Flights <= 0 {
		c.Flights = 1000
	}
	if c.Passengers <= 0 {
		c.Passengers = 20
	}
	if c.BaseEpoch == 0 {
		c.BaseEpoch = 1420070400
	}
}

// ValidateConfig compares a per-flight passenger count table against a
// GROUP BY over the source table.
type ValidateConfig struct {
	SourceTable string
	SourceKey   string
	TargetTable string
	TargetKey   string
	TargetVal   string
	// RunID restricts the target to one sink run; empty compares all rows.
	RunID string
}

func (c *ValidateConfig) withDefaults() {
	if c.SourceKey == "" {
		c.SourceKey = "flight_id"
	}
	if c.TargetKey == "" {
		c.TargetKey = "flight_id"
	}
	if c.TargetVal == "" {
		c.TargetVal = "passengers"
	}
}
