package mrapps

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/emptyOVO/flightmr/worker"
)

// Leg is a flight row without its passenger id. After combining, Passengers
// holds every passenger of the flight sorted by id.
type Leg struct {
	DepartureCode   string
	ArrivalCode     string
	DepartureEpoch  string
	DurationMinutes string
	Passengers      []string
}

func (l Leg) String() string {
	return strings.Join([]string{
		l.DepartureCode, l.ArrivalCode, l.DepartureEpoch, l.DurationMinutes,
		strings.Join(l.Passengers, " "),
	}, ",")
}

// Itinerary is one resolved flight.
type Itinerary struct {
	FlightID         string
	DepartureAirport string
	DepartureTime    time.Time
	ArrivalAirport   string
	ArrivalTime      time.Time
	// DurationSeconds is the flight time in whole seconds.
	DurationSeconds int64
	Passengers       []string
}

// NewItineraryJob lists every flight with resolved airports, departure and
// arrival timestamps, duration and its passengers.
func NewItineraryJob(flights []dataset.FlightEvent, index *dataset.LookupIndex, onMiss JoinMissPolicy) *worker.Job[string, Leg, Itinerary] {
	mapf := func(ctx *worker.MrContext[string, Leg]) error {
		for _, ev := range flights {
			ctx.EmitIntermediate(ev.FlightID, Leg{
				DepartureCode:   ev.DepartureCode,
				ArrivalCode:     ev.ArrivalCode,
				DepartureEpoch:  ev.DepartureEpoch,
				DurationMinutes: ev.DurationMinutes,
				Passengers:      []string{ev.PassengerID},
			})
		}
		return nil
	}
	reducef := func(flightID string, values []Leg) (Itinerary, error) {
		return reduceItinerary(flightID, values, index, onMiss)
	}
	job := worker.NewJob("itinerary", mapf, reducef)
	job.ValueOrder = byPassenger
	job.Combinef = combineLegs
	return job
}

func byPassenger(a, b Leg) int {
	return strings.Compare(firstPassenger(a), firstPassenger(b))
}

func firstPassenger(l Leg) string {
	if len(l.Passengers) == 0 {
		return ""
	}
	return l.Passengers[0]
}

// combineLegs folds the rows of one flight into a single leg. Everything
// except the passenger is the same on every row of a flight, so the first
// row supplies it.
func combineLegs(flightID string, legs []Leg) (Leg, error) {
	if len(legs) == 0 {
		return Leg{}, fmt.Errorf("flight %s has no rows", flightID)
	}
	out := legs[0]
	out.Passengers = make([]string, 0, len(legs))
	for _, l := range legs {
		out.Passengers = append(out.Passengers, l.Passengers...)
	}
	return out, nil
}

func reduceItinerary(flightID string, legs []Leg, index *dataset.LookupIndex, onMiss JoinMissPolicy) (Itinerary, error) {
	if len(legs) != 1 {
		return Itinerary{}, fmt.Errorf("flight %s: expected one combined leg, got %d", flightID, len(legs))
	}
	leg := legs[0]
	epoch, err := strconv.ParseInt(leg.DepartureEpoch, 10, 64)
	if err != nil {
		return Itinerary{}, fmt.Errorf("%w: departure epoch %q", ErrBadNumber, leg.DepartureEpoch)
	}
	minutes, err := strconv.ParseInt(leg.DurationMinutes, 10, 64)
	if err != nil {
		return Itinerary{}, fmt.Errorf("%w: duration %q", ErrBadNumber, leg.DurationMinutes)
	}
	from, err := resolveAirport(index, leg.DepartureCode, onMiss)
	if err != nil {
		return Itinerary{}, err
	}
	to, err := resolveAirport(index, leg.ArrivalCode, onMiss)
	if err != nil {
		return Itinerary{}, err
	}
	if minutes > math.MaxInt64/60 || epoch > math.MaxInt64-minutes*60 {
		return Itinerary{}, fmt.Errorf("%w: duration %q out of range", ErrBadNumber, leg.DurationMinutes)
	}
	secs := minutes * 60
	return Itinerary{
		FlightID:         flightID,
		DepartureAirport: from,
		DepartureTime:    time.Unix(epoch, 0).UTC(),
		ArrivalAirport:   to,
		ArrivalTime:      time.Unix(epoch+secs, 0).UTC(),
		DurationSeconds:  secs,
		Passengers:       leg.Passengers,
	}, nil
}

// ItineraryTable renders results as t2. The first passenger shares the
// flight's row; every further passenger gets a row of its own with the
// other columns blank.
func ItineraryTable(results []Itinerary) dataset.Table {
	t := dataset.Table{
		Name:   "t2",
		Header: []string{"Flight ID", "Departure", "Departure Time", "Arrival", "Arrival Time", "Flight Duration", "Passengers"},
	}
	for _, it := range results {
		first := ""
		if len(it.Passengers) > 0 {
			first = it.Passengers[0]
		}
		t.Rows = append(t.Rows, []string{
			it.FlightID,
			it.DepartureAirport,
			FormatTimestamp(it.DepartureTime),
			it.ArrivalAirport,
			FormatTimestamp(it.ArrivalTime),
			FormatElapsed(it.DurationSeconds),
			first,
		})
		for i := 1; i < len(it.Passengers); i++ {
			t.Rows = append(t.Rows, []string{"", "", "", "", "", "", it.Passengers[i]})
		}
	}
	return t
}
