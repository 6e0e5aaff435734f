package flightmr

import (
	"fmt"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/emptyOVO/flightmr/mrapps"
	log "github.com/sirupsen/logrus"
)

// Session holds the validated datasets and lookup index shared by every task
// run of a process. Nothing in it changes after NewSession returns.
type Session struct {
	Flights       []dataset.FlightEvent
	Index         *dataset.LookupIndex
	FlightReport  dataset.Report
	AirportReport dataset.Report
	Options       Options
}

// Policies selects validation rules for both inputs.
type Policies struct {
	Flights  dataset.Policy
	Airports dataset.Policy
}

// DefaultPolicies enforce every rule on flights and only structure on airports.
var DefaultPolicies = Policies{Flights: dataset.FlightPolicy, Airports: dataset.AirportPolicy}

// NewSession validates raw rows once and builds the lookup index.
func NewSession(flightRows, airportRows []dataset.Row, p Policies, o Options) (*Session, error) {
	// Named records need the schema width even when the caller relaxed it.
	if p.Flights.MinFields < dataset.FlightEventFields {
		p.Flights.MinFields = dataset.FlightEventFields
	}
	if p.Airports.MinFields < dataset.AirportFields {
		p.Airports.MinFields = dataset.AirportFields
	}

	fr := dataset.Validate("flights", flightRows, p.Flights)
	ar := dataset.Validate("airports", airportRows, p.Airports)

	flights, err := dataset.FlightEvents(fr.Kept)
	if err != nil {
		return nil, fmt.Errorf("flights: %w", err)
	}
	airports, err := dataset.Airports(ar.Kept)
	if err != nil {
		return nil, fmt.Errorf("airports: %w", err)
	}
	return &Session{
		Flights:       flights,
		Index:         dataset.NewLookupIndex(airports),
		FlightReport:  fr,
		AirportReport: ar,
		Options:       o,
	}, nil
}

// Run executes one task and renders its output table. The dropped-row
// summary is logged before the task starts.
func (s *Session) Run(t Task) (dataset.Table, error) {
	s.FlightReport.LogSummary()
	s.AirportReport.LogSummary()
	log.WithField("task", t.String()).Info("[Session] Starting task")

	switch t {
	case Departures:
		res, err := runTask1(s.Flights, s.Index, s.Options)
		if err != nil {
			return dataset.Table{}, err
		}
		return mrapps.DeparturesTable(res), nil
	case Itineraries:
		res, err := runTask2(s.Flights, s.Index, s.Options)
		if err != nil {
			return dataset.Table{}, err
		}
		return mrapps.ItineraryTable(res), nil
	case Passengers:
		res, err := runTask3(s.Flights, s.Index, s.Options)
		if err != nil {
			return dataset.Table{}, err
		}
		return mrapps.PassengersTable(res), nil
	default:
		return dataset.Table{}, fmt.Errorf("unknown task: %v", t)
	}
}
