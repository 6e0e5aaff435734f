package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emptyOVO/flightmr"
	"github.com/emptyOVO/flightmr/batch"
	"github.com/emptyOVO/flightmr/dataset"
	"github.com/stretchr/testify/require"
)

func menuSession(t *testing.T, flights []dataset.Row) *flightmr.Session {
	t.Helper()
	airports := []dataset.Row{{"Sydney", "SYD"}, {"Melbourne", "MEL"}}
	s, err := flightmr.NewSession(flights, airports, flightmr.DefaultPolicies, flightmr.Options{})
	require.NoError(t, err)
	return s
}

func TestRunMenu(t *testing.T) {
	out := t.TempDir()
	s := menuSession(t, []dataset.Row{{"P1", "ABC1234D", "SYD", "MEL", "1893456000", "90"}})
	sink := batch.FlowSinkConfig{Type: "csv", CSV: batch.CSVSinkConfig{OutputDir: out}}

	var buf bytes.Buffer
	err := runMenu(context.Background(), strings.NewReader("4\nfoo\n3\n1\nexit\n2\n"), &buf, s, sink)
	require.NoError(t, err)

	text := buf.String()
	require.Equal(t, 5, strings.Count(text, "Select task: "))
	require.Equal(t, 2, strings.Count(text, "Invalid input"))
	require.Contains(t, text, "[1] Determine number of flights from each airport")
	require.Contains(t, text, "Task 3 finished: 1 rows written to t3")
	require.Contains(t, text, "Task 1 finished: 2 rows written to t1")

	// input after exit is never read
	_, err = os.Stat(filepath.Join(out, "t2.csv"))
	require.True(t, os.IsNotExist(err))
	raw, err := os.ReadFile(filepath.Join(out, "t3.csv"))
	require.NoError(t, err)
	require.Equal(t, "Flight ID,Passengers\nABC1234D,1\n", string(raw))
}

func TestRunMenuTaskFailureContinues(t *testing.T) {
	s := menuSession(t, []dataset.Row{{"P1", "ABC1234D", "LAX", "MEL", "1893456000", "90"}})
	sink := batch.FlowSinkConfig{Type: "csv", CSV: batch.CSVSinkConfig{OutputDir: t.TempDir()}}

	var buf bytes.Buffer
	require.NoError(t, runMenu(context.Background(), strings.NewReader("1\n3\n"), &buf, s, sink))
	require.Contains(t, buf.String(), "Task 1 failed:")
	require.Contains(t, buf.String(), "Task 3 finished")
}
