package batch

import (
	"context"

	"github.com/emptyOVO/flightmr"
	"github.com/emptyOVO/flightmr/dataset"
)

// Runner executes one task against a loaded session.
type Runner interface {
	Run(ctx context.Context, s *flightmr.Session, t flightmr.Task) (dataset.Table, error)
}

// SessionRunner runs tasks in process through Session.Run.
type SessionRunner struct{}

func (SessionRunner) Run(ctx context.Context, s *flightmr.Session, t flightmr.Task) (dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Table{}, err
	}
	return s.Run(t)
}

var defaultRunner Runner = SessionRunner{}

// SetDefaultRunner overrides the process-wide task runner.
func SetDefaultRunner(r Runner) {
	if r == nil {
		return
	}
	defaultRunner = r
}

// DefaultRunner returns the current process-wide task runner.
func DefaultRunner() Runner {
	return defaultRunner
}

// RunTask executes t through the configured runner.
func RunTask(ctx context.Context, s *flightmr.Session, t flightmr.Task) (dataset.Table, error) {
	return DefaultRunner().Run(ctx, s, t)
}
