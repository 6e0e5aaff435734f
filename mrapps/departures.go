package mrapps

import (
	"strconv"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/emptyOVO/flightmr/worker"
)

// Departure is either one observed flight out of an airport or the marker
// for an airport that had no flights at all.
type Departure struct {
	FlightID string
	observed bool
}

// Observed marks a flight departing from the key airport.
func Observed(flightID string) Departure {
	return Departure{FlightID: flightID, observed: true}
}

// Unused marks an airport present in the lookup table with no departures.
var Unused = Departure{}

// IsUnused reports whether d is the no-flights marker.
func (d Departure) IsUnused() bool { return !d.observed }

func (d Departure) String() string {
	if !d.observed {
		return "-"
	}
	return d.FlightID
}

// DepartureCount is one line of the departures-per-airport report.
type DepartureCount struct {
	Airport    string
	Departures int
}

// departureState is the dedup bookkeeping of a single run.
type departureState struct {
	seenFlights  map[string]struct{}
	seenAirports map[string]struct{}
}

func newDepartureState() *departureState {
	return &departureState{
		seenFlights:  make(map[string]struct{}),
		seenAirports: make(map[string]struct{}),
	}
}

// NewDeparturesJob counts distinct flights leaving each airport. Every
// flight id is mapped at most once, and lookup airports never seen as a
// departure point are reported with zero.
func NewDeparturesJob(flights []dataset.FlightEvent, index *dataset.LookupIndex, onMiss JoinMissPolicy) *worker.Job[string, Departure, DepartureCount] {
	st := newDepartureState()
	mapf := func(ctx *worker.MrContext[string, Departure]) error {
		for _, ev := range flights {
			if _, ok := st.seenFlights[ev.FlightID]; ok {
				continue
			}
			st.seenFlights[ev.FlightID] = struct{}{}
			name, err := resolveAirport(index, ev.DepartureCode, onMiss)
			if err != nil {
				return err
			}
			st.seenAirports[ev.DepartureCode] = struct{}{}
			ctx.EmitIntermediate(name, Observed(ev.FlightID))
		}
		for _, a := range index.Airports() {
			if _, ok := st.seenAirports[a.Code]; ok {
				continue
			}
			st.seenAirports[a.Code] = struct{}{}
			ctx.EmitIntermediate(a.Name, Unused)
		}
		return nil
	}
	return worker.NewJob("departures", mapf, reduceDepartures)
}

// reduceDepartures counts observed flights. An Unused marker next to
// observed flights comes from a second lookup code sharing the airport name
// and adds nothing.
func reduceDepartures(airport string, values []Departure) (DepartureCount, error) {
	n := 0
	for _, v := range values {
		if !v.IsUnused() {
			n++
		}
	}
	return DepartureCount{Airport: airport, Departures: n}, nil
}

// DeparturesTable renders results as t1.
func DeparturesTable(results []DepartureCount) dataset.Table {
	t := dataset.Table{Name: "t1", Header: []string{"Airport", "Departures"}}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{r.Airport, strconv.Itoa(r.Departures)})
	}
	return t
}
