package mrapps

import (
	"strconv"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/emptyOVO/flightmr/worker"
)

// PassengerCount is one line of the passengers-per-flight report.
type PassengerCount struct {
	FlightID   string
	Passengers int
}

// NewPassengersJob counts passenger rows on each flight.
func NewPassengersJob(flights []dataset.FlightEvent) *worker.Job[string, string, PassengerCount] {
	mapf := func(ctx *worker.MrContext[string, string]) error {
		for _, ev := range flights {
			ctx.EmitIntermediate(ev.FlightID, ev.PassengerID)
		}
		return nil
	}
	reducef := func(flightID string, passengers []string) (PassengerCount, error) {
		return PassengerCount{FlightID: flightID, Passengers: len(passengers)}, nil
	}
	return worker.NewJob("passengers", mapf, reducef)
}

// PassengersTable renders results as t3.
func PassengersTable(results []PassengerCount) dataset.Table {
	t := dataset.Table{Name: "t3", Header: []string{"Flight ID", "Passengers"}}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{r.FlightID, strconv.Itoa(r.Passengers)})
	}
	return t
}
