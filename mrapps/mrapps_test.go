package mrapps

import (
	"testing"
	"time"

	"github.com/emptyOVO/flightmr/dataset"
	"github.com/stretchr/testify/require"
)

func lookup() *dataset.LookupIndex {
	return dataset.NewLookupIndex([]dataset.Airport{
		{Name: "SYDNEY", Code: "SYD"},
		{Name: "MELBOURNE", Code: "MEL"},
	})
}

func event(passenger, flight, from, to, epoch, minutes string) dataset.FlightEvent {
	return dataset.FlightEvent{
		PassengerID:     passenger,
		FlightID:        flight,
		DepartureCode:   from,
		ArrivalCode:     to,
		DepartureEpoch:  epoch,
		DurationMinutes: minutes,
	}
}

func TestDeparturesCountsAndUnusedAirports(t *testing.T) {
	flights := []dataset.FlightEvent{
		event("P1", "ABC1234D", "SYD", "MEL", "1893456000", "90"),
		event("P2", "XYZ0001A", "SYD", "MEL", "1893456000", "90"),
	}
	got, err := NewDeparturesJob(flights, lookup(), JoinMissFail).Run()
	require.NoError(t, err)
	require.Equal(t, []DepartureCount{
		{Airport: "MELBOURNE", Departures: 0},
		{Airport: "SYDNEY", Departures: 2},
	}, got)
}

func TestDeparturesCountEachFlightOnce(t *testing.T) {
	flights := []dataset.FlightEvent{
		event("P1", "ABC1234D", "SYD", "MEL", "1", "1"),
		event("P2", "ABC1234D", "SYD", "MEL", "1", "1"),
		event("P3", "ABC1234D", "SYD", "MEL", "1", "1"),
		event("P1", "DEF5678E", "MEL", "SYD", "1", "1"),
	}
	got, err := NewDeparturesJob(flights, lookup(), JoinMissFail).Run()
	require.NoError(t, err)
	require.Equal(t, []DepartureCount{
		{Airport: "MELBOURNE", Departures: 1},
		{Airport: "SYDNEY", Departures: 1},
	}, got)
}

func TestDeparturesSharedNameWithUnusedCode(t *testing.T) {
	index := dataset.NewLookupIndex([]dataset.Airport{
		{Name: "LONDON", Code: "LHR"},
		{Name: "LONDON", Code: "LGW"},
	})
	flights := []dataset.FlightEvent{event("P1", "ABC1234D", "LHR", "LGW", "1", "1")}
	got, err := NewDeparturesJob(flights, index, JoinMissFail).Run()
	require.NoError(t, err)
	require.Equal(t, []DepartureCount{{Airport: "LONDON", Departures: 1}}, got)
}

func TestDeparturesStateResetPerRun(t *testing.T) {
	flights := []dataset.FlightEvent{event("P1", "ABC1234D", "SYD", "MEL", "1", "1")}
	first, err := NewDeparturesJob(flights, lookup(), JoinMissFail).Run()
	require.NoError(t, err)
	second, err := NewDeparturesJob(flights, lookup(), JoinMissFail).Run()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDeparturesJoinMiss(t *testing.T) {
	flights := []dataset.FlightEvent{event("P1", "ABC1234D", "LAX", "MEL", "1", "1")}
	job := NewDeparturesJob(flights, lookup(), JoinMissFail)
	_, err := job.Run()
	require.ErrorIs(t, err, ErrJoinMiss)

	got, err := NewDeparturesJob(flights, lookup(), JoinMissUnknown).Run()
	require.NoError(t, err)
	require.Equal(t, []DepartureCount{
		{Airport: "MELBOURNE", Departures: 0},
		{Airport: "SYDNEY", Departures: 0},
		{Airport: UnknownAirport, Departures: 1},
	}, got)
}

func TestDeparturesTable(t *testing.T) {
	tbl := DeparturesTable([]DepartureCount{{"SYDNEY", 2}, {"MELBOURNE", 0}})
	require.Equal(t, "t1", tbl.Name)
	require.Equal(t, []string{"Airport", "Departures"}, tbl.Header)
	require.Equal(t, [][]string{{"SYDNEY", "2"}, {"MELBOURNE", "0"}}, tbl.Rows)
}

func TestDepartureMarker(t *testing.T) {
	require.True(t, Unused.IsUnused())
	require.Equal(t, "-", Unused.String())
	require.False(t, Observed("-").IsUnused())
}

func TestItinerary(t *testing.T) {
	flights := []dataset.FlightEvent{
		event("P2", "ABC1234D", "SYD", "MEL", "1893456000", "90"),
		event("P1", "ABC1234D", "SYD", "MEL", "1893456000", "90"),
	}
	got, err := NewItineraryJob(flights, lookup(), JoinMissFail).Run()
	require.NoError(t, err)
	require.Len(t, got, 1)
	it := got[0]
	require.Equal(t, "ABC1234D", it.FlightID)
	require.Equal(t, "SYDNEY", it.DepartureAirport)
	require.Equal(t, "MELBOURNE", it.ArrivalAirport)
	require.Equal(t, int64(90*60), it.DurationSeconds)
	require.Equal(t, []string{"P1", "P2"}, it.Passengers)

	tbl := ItineraryTable(got)
	require.Equal(t, "t2", tbl.Name)
	require.Equal(t, [][]string{
		{"ABC1234D", "SYDNEY", "01 JAN 2030 00:00:00", "MELBOURNE", "01 JAN 2030 01:30:00", "01:30:00", "P1"},
		{"", "", "", "", "", "", "P2"},
	}, tbl.Rows)
}

func TestItineraryFlightsInKeyOrder(t *testing.T) {
	flights := []dataset.FlightEvent{
		event("P1", "ZZZ9999Z", "MEL", "SYD", "0", "1"),
		event("P1", "AAA0000A", "SYD", "MEL", "0", "1"),
	}
	got, err := NewItineraryJob(flights, lookup(), JoinMissFail).Run()
	require.NoError(t, err)
	require.Equal(t, "AAA0000A", got[0].FlightID)
	require.Equal(t, "ZZZ9999Z", got[1].FlightID)
}

func TestItineraryLongDuration(t *testing.T) {
	flights := []dataset.FlightEvent{event("P1", "ABC1234D", "SYD", "MEL", "0", "200000000")}
	got, err := NewItineraryJob(flights, lookup(), JoinMissFail).Run()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"ABC1234D", "SYDNEY", "01 JAN 1970 00:00:00", "MELBOURNE", "07 APR 2350 21:20:00", "3333333:20:00", "P1"},
	}, ItineraryTable(got).Rows)
}

func TestItineraryFailures(t *testing.T) {
	tests := []struct {
		name string
		ev   dataset.FlightEvent
		want error
	}{
		{name: "bad epoch", ev: event("P1", "ABC1234D", "SYD", "MEL", "SOON", "90"), want: ErrBadNumber},
		{name: "bad duration", ev: event("P1", "ABC1234D", "SYD", "MEL", "0", "LONG"), want: ErrBadNumber},
		{name: "duration past int64 seconds", ev: event("P1", "ABC1234D", "SYD", "MEL", "0", "200000000000000000"), want: ErrBadNumber},
		{name: "arrival past int64 epoch", ev: event("P1", "ABC1234D", "SYD", "MEL", "9223372036854775000", "60"), want: ErrBadNumber},
		{name: "unknown departure", ev: event("P1", "ABC1234D", "LAX", "MEL", "0", "90"), want: ErrJoinMiss},
		{name: "unknown arrival", ev: event("P1", "ABC1234D", "SYD", "LAX", "0", "90"), want: ErrJoinMiss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItineraryJob([]dataset.FlightEvent{tt.ev}, lookup(), JoinMissFail).Run()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestItineraryUnknownMarkerKeepsColumns(t *testing.T) {
	flights := []dataset.FlightEvent{event("P1", "ABC1234D", "SYD", "LAX", "0", "60")}
	got, err := NewItineraryJob(flights, lookup(), JoinMissUnknown).Run()
	require.NoError(t, err)
	tbl := ItineraryTable(got)
	require.Len(t, tbl.Rows[0], len(tbl.Header))
	require.Equal(t, UnknownAirport, tbl.Rows[0][3])
}

func TestPassengers(t *testing.T) {
	flights := []dataset.FlightEvent{
		event("P1", "XYZ0001A", "SYD", "MEL", "0", "1"),
		event("P2", "XYZ0001A", "SYD", "MEL", "0", "1"),
		event("P3", "XYZ0001A", "SYD", "MEL", "0", "1"),
		event("P1", "ABC1234D", "SYD", "MEL", "0", "1"),
	}
	got, err := NewPassengersJob(flights).Run()
	require.NoError(t, err)
	require.Equal(t, []PassengerCount{{"ABC1234D", 1}, {"XYZ0001A", 3}}, got)

	tbl := PassengersTable(got)
	require.Equal(t, []string{"Flight ID", "Passengers"}, tbl.Header)
	require.Equal(t, []string{"XYZ0001A", "3"}, tbl.Rows[1])
}

func TestFormatting(t *testing.T) {
	require.Equal(t, "01 JAN 2030 00:00:00", FormatTimestamp(time.Unix(1893456000, 0)))
	require.Equal(t, "01:30:00", FormatElapsed(90*60))
	require.Equal(t, "25:00:05", FormatElapsed(25*3600+5))
}

func TestParseJoinMissPolicy(t *testing.T) {
	p, err := ParseJoinMissPolicy("")
	require.NoError(t, err)
	require.Equal(t, JoinMissFail, p)
	p, err = ParseJoinMissPolicy(" Unknown ")
	require.NoError(t, err)
	require.Equal(t, JoinMissUnknown, p)
	_, err = ParseJoinMissPolicy("skip")
	require.Error(t, err)
}
