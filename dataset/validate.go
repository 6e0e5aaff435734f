package dataset

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Reason names why a row was dropped.
type Reason string

const (
	ReasonEmpty      Reason = "empty row or empty leading field"
	ReasonShort      Reason = "too few fields"
	ReasonCharacters Reason = "non-alphanumeric field"
	ReasonFlightID   Reason = "invalid flight id format"
)

// Policy selects which optional rules Validate enforces.
type Policy struct {
	// CharacterPolicy drops rows with any field that is not purely [A-Z0-9].
	CharacterPolicy bool
	// FlightIDPolicy drops rows whose flight id is not LLLddddL.
	FlightIDPolicy bool
	// MinFields drops rows shorter than the record schema. Zero disables it.
	MinFields int
}

// FlightPolicy is the policy applied to the passenger/flight event log.
var FlightPolicy = Policy{CharacterPolicy: true, FlightIDPolicy: true, MinFields: FlightEventFields}

// AirportPolicy is the policy applied to the airport lookup table.
var AirportPolicy = Policy{MinFields: AirportFields}

// Rejection is a dropped row with the rule that dropped it.
type Rejection struct {
	Row    Row
	Reason Reason
}

// Report is the outcome of validating one dataset.
type Report struct {
	Name     string
	Kept     []Row
	Rejected []Rejection
}

// Validate filters and normalizes rows. It never fails: malformed rows are
// excluded and recorded in the report. The input slice is not modified.
func Validate(name string, rows []Row, p Policy) Report {
	rep := Report{Name: name, Kept: make([]Row, 0, len(rows))}
	for _, raw := range rows {
		row := upper(raw)
		if reason, ok := check(row, p); !ok {
			rep.Rejected = append(rep.Rejected, Rejection{Row: row, Reason: reason})
			log.WithFields(log.Fields{
				"dataset": name,
				"reason":  string(reason),
			}).Warnf("[Validator] Removed row %v", raw)
			continue
		}
		rep.Kept = append(rep.Kept, row)
	}
	return rep
}

// check applies p to an already upper-cased row.
func check(row Row, p Policy) (Reason, bool) {
	if len(row) == 0 || row[0] == "" {
		return ReasonEmpty, false
	}
	if p.MinFields > 0 && len(row) < p.MinFields {
		return ReasonShort, false
	}
	if p.CharacterPolicy {
		for _, f := range row {
			if !isAlnum(f) {
				return ReasonCharacters, false
			}
		}
	}
	if p.FlightIDPolicy {
		if len(row) <= colFlightID || !ValidFlightID(row[colFlightID]) {
			return ReasonFlightID, false
		}
	}
	return "", true
}

func upper(r Row) Row {
	out := make(Row, len(r))
	for i, f := range r {
		out[i] = strings.ToUpper(f)
	}
	return out
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isUpper(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ValidFlightID reports whether id is three letters, four digits, one letter.
// Letters must already be upper case.
func ValidFlightID(id string) bool {
	if len(id) != 8 {
		return false
	}
	for i := 0; i < 8; i++ {
		switch {
		case i < 3 || i == 7:
			if !isUpper(id[i]) {
				return false
			}
		default:
			if !isDigit(id[i]) {
				return false
			}
		}
	}
	return true
}

// Counts returns the number of rejected rows per reason.
func (r Report) Counts() map[Reason]int {
	out := make(map[Reason]int)
	for _, rej := range r.Rejected {
		out[rej.Reason]++
	}
	return out
}

// LogSummary writes the kept/rejected totals for the dataset.
func (r Report) LogSummary() {
	counts := r.Counts()
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	fields := log.Fields{"dataset": r.Name, "kept": len(r.Kept), "rejected": len(r.Rejected)}
	for _, reason := range reasons {
		fields[reason] = counts[Reason(reason)]
	}
	log.WithFields(fields).Info("[Validator] Dataset summary")
}
