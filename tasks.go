package flightmr

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/emptyOVO/flightmr/mrapps"
	"github.com/emptyOVO/flightmr/worker"
)

// Task selects one of the three reports.
type Task int

const (
	Departures Task = iota + 1
	Itineraries
	Passengers
)

// AllTasks lists every task in menu order.
var AllTasks = []Task{Departures, Itineraries, Passengers}

func (t Task) String() string {
	switch t {
	case Departures:
		return "departures"
	case Itineraries:
		return "itinerary"
	case Passengers:
		return "passengers"
	default:
		return "task(" + strconv.Itoa(int(t)) + ")"
	}
}

// Describe is the menu text of the task.
func (t Task) Describe() string {
	switch t {
	case Departures:
		return "Determine number of flights from each airport"
	case Itineraries:
		return "List flights based on flight ID"
	case Passengers:
		return "Determine number of passengers on each flight"
	default:
		return t.String()
	}
}

// ParseTask accepts a task number or name.
func ParseTask(s string) (Task, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTasks {
		if s == strconv.Itoa(int(t)) || s == t.String() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown task: %q", s)
}

// Options tune a task run.
type Options struct {
	JoinMiss         mrapps.JoinMissPolicy
	DumpIntermediate bool
	IntermediateDir  string
}

func configure[K cmp.Ordered, V any, R any](job *worker.Job[K, V, R], o Options) *worker.Job[K, V, R] {
	job.DumpIMD = o.DumpIntermediate
	job.IMDDir = o.IntermediateDir
	return job
}

// RunTask1 counts departures per airport, including airports with none.
func RunTask1(flights []dataset.FlightEvent, index *dataset.LookupIndex) ([]mrapps.DepartureCount, error) {
	return runTask1(flights, index, Options{})
}

// RunTask2 lists every flight with resolved airports, times and passengers.
func RunTask2(flights []dataset.FlightEvent, index *dataset.LookupIndex) ([]mrapps.Itinerary, error) {
	return runTask2(flights, index, Options{})
}

// RunTask3 counts passengers per flight.
func RunTask3(flights []dataset.FlightEvent, index *dataset.LookupIndex) ([]mrapps.PassengerCount, error) {
	return runTask3(flights, index, Options{})
}

func runTask1(flights []dataset.FlightEvent, index *dataset.LookupIndex, o Options) ([]mrapps.DepartureCount, error) {
	return configure(mrapps.NewDeparturesJob(flights, index, joinMiss(o)), o).Run()
}

func runTask2(flights []dataset.FlightEvent, index *dataset.LookupIndex, o Options) ([]mrapps.Itinerary, error) {
	return configure(mrapps.NewItineraryJob(flights, index, joinMiss(o)), o).Run()
}

// The lookup table plays no part in counting passengers.
func runTask3(flights []dataset.FlightEvent, _ *dataset.LookupIndex, o Options) ([]mrapps.PassengerCount, error) {
	return configure(mrapps.NewPassengersJob(flights), o).Run()
}

func joinMiss(o Options) mrapps.JoinMissPolicy {
	if o.JoinMiss == "" {
		return mrapps.JoinMissFail
	}
	return o.JoinMiss
}
