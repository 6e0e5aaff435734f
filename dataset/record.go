package dataset

import "fmt"

// Row is one raw delimited line; position determines meaning.
type Row []string

// Flight-event column positions.
const (
	colPassengerID = iota
	colFlightID
	colDepartureCode
	colArrivalCode
	colDepartureEpoch
	colDuration

	FlightEventFields
)

// Airport lookup column positions.
const (
	colAirportName = iota
	colAirportCode

	AirportFields
)

// FlightEvent is one passenger boarding a flight.
// DepartureEpoch (seconds) and DurationMinutes stay as validated text; callers
// that need the numbers parse them and treat a failure as fatal.
type FlightEvent struct {
	PassengerID     string
	FlightID        string
	DepartureCode   string
	ArrivalCode     string
	DepartureEpoch  string
	DurationMinutes string
}

// Airport is one row of the airport reference table.
type Airport struct {
	Name  string
	Code  string
	Extra []string
}

// FlightEventFromRow names the columns of a validated flight-event row.
func FlightEventFromRow(r Row) (FlightEvent, error) {
	if len(r) < FlightEventFields {
		return FlightEvent{}, fmt.Errorf("flight event row has %d fields, need %d", len(r), FlightEventFields)
	}
	return FlightEvent{
		PassengerID:     r[colPassengerID],
		FlightID:        r[colFlightID],
		DepartureCode:   r[colDepartureCode],
		ArrivalCode:     r[colArrivalCode],
		DepartureEpoch:  r[colDepartureEpoch],
		DurationMinutes: r[colDuration],
	}, nil
}

// AirportFromRow names the columns of a validated lookup row.
func AirportFromRow(r Row) (Airport, error) {
	if len(r) < AirportFields {
		return Airport{}, fmt.Errorf("airport row has %d fields, need %d", len(r), AirportFields)
	}
	a := Airport{Name: r[colAirportName], Code: r[colAirportCode]}
	if len(r) > AirportFields {
		a.Extra = append([]string(nil), r[AirportFields:]...)
	}
	return a, nil
}

// FlightEvents converts validated rows into named records.
func FlightEvents(rows []Row) ([]FlightEvent, error) {
	out := make([]FlightEvent, 0, len(rows))
	for i, r := range rows {
		ev, err := FlightEventFromRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Airports converts validated rows into named records.
func Airports(rows []Row) ([]Airport, error) {
	out := make([]Airport, 0, len(rows))
	for i, r := range rows {
		a, err := AirportFromRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Table is a finished result ready for an output writer.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}
