package sql_batch

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SourceConfig names the tables holding the raw flight and airport rows.
// Apart from the OrderBy column, each table's columns are the record fields
// in file order: passenger, flight, from, to, epoch, duration for flights and
// name, code, then anything else for airports.
type SourceConfig struct {
	FlightsTable  string `json:"flightstable"`
	AirportsTable string `json:"airportstable"`
	// OrderBy is the surrogate key column giving the rows their file order.
	// It is dropped from the exported rows. Flows require it. Empty in a
	// direct ExportTable call keeps every column in database order.
	OrderBy string `json:"orderby"`
}

func (c *SourceConfig) WithDefaults() {
	if c.FlightsTable == "" {
		c.FlightsTable = "passenger_flights"
	}
	if c.AirportsTable == "" {
		c.AirportsTable = "airports"
	}
}

// SinkConfig configures result import into SQL tables.
type SinkConfig struct {
	TablePrefix string `json:"tableprefix"`
	Replace     bool   `json:"replace"`
	BatchSize   int    `json:"batchsize"`
}

func (c *SinkConfig) WithDefaults() {
	if c.TablePrefix == "" {
		c.TablePrefix = "flightmr_"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
}

func quoteIdentifier(s string) (string, error) {
	if !identifierRe.MatchString(s) {
		return "", fmt.Errorf("invalid identifier: %s", s)
	}
	return "`" + s + "`", nil
}

// columnName turns an output header such as "Flight ID" into flight_id.
func columnName(header string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
