package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emptyOVO/flightmr"
	"github.com/emptyOVO/flightmr/batch"
)

// runMenu reads task selections from in until "exit" or end of input. A
// failed task is reported and the menu continues with the same session.
func runMenu(ctx context.Context, in io.Reader, out io.Writer, s *flightmr.Session, sink batch.FlowSinkConfig) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, "\nTasks:")
		for _, t := range flightmr.AllTasks {
			fmt.Fprintf(out, "[%d] %s\n", int(t), t.Describe())
		}
		fmt.Fprintln(out, "[exit]")
		fmt.Fprint(out, "Select task: ")

		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		text := strings.TrimSpace(sc.Text())
		if text == "exit" {
			return nil
		}
		task, err := flightmr.ParseTask(text)
		if err != nil || text != fmt.Sprint(int(task)) {
			fmt.Fprintln(out, "Invalid input")
			continue
		}
		table, err := batch.RunTask(ctx, s, task)
		if err != nil {
			fmt.Fprintf(out, "Task %d failed: %v\n", int(task), err)
			continue
		}
		if err := batch.WriteTable(ctx, sink, table); err != nil {
			fmt.Fprintf(out, "Writing %s failed: %v\n", table.Name, err)
			continue
		}
		fmt.Fprintf(out, "Task %d finished: %d rows written to %s\n", int(task), len(table.Rows), table.Name)
	}
}
