package worker

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// State is the lifecycle position of a Job.
type State int

const (
	Idle State = iota
	Mapping
	Grouping
	Reducing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Mapping:
		return "mapping"
	case Grouping:
		return "grouping"
	case Reducing:
		return "reducing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MapFormat drives one full mapping pass, emitting pairs into ctx.
type MapFormat[K cmp.Ordered, V any] func(ctx *MrContext[K, V]) error

// CombineFormat collapses all values of one key into a single value before
// the reducer sees them.
type CombineFormat[K cmp.Ordered, V any] func(key K, values []V) (V, error)

// ReduceFormat turns one key and its values into one result entry.
type ReduceFormat[K cmp.Ordered, V any, R any] func(key K, values []V) (R, error)

// Job runs a single map -> group -> reduce pass. A Job is used once; build a
// new one for every run so no state leaks between runs.
type Job[K cmp.Ordered, V any, R any] struct {
	Name     string
	UUID     string
	Mapf     MapFormat[K, V]
	Combinef CombineFormat[K, V]
	// ValueOrder, when set, orders the values inside each group. The sort is
	// stable so values comparing equal keep their emit order.
	ValueOrder func(a, b V) int
	Reducef    ReduceFormat[K, V, R]

	// DumpIMD writes the intermediate pairs to IMDDir after mapping.
	DumpIMD bool
	IMDDir  string
	IMDFile string

	State State
	log   *log.Entry
}

// NewJob returns an idle job with a fresh run id.
func NewJob[K cmp.Ordered, V any, R any](name string, mapf MapFormat[K, V], reducef ReduceFormat[K, V, R]) *Job[K, V, R] {
	id := uuid.New().String()
	return &Job[K, V, R]{
		Name:    name,
		UUID:    id,
		Mapf:    mapf,
		Reducef: reducef,
		State:   Idle,
		log:     log.WithFields(log.Fields{"run_id": id, "task": name}),
	}
}

// Run executes the job. Results come back in ascending key order. Any mapper,
// combiner or reducer error stops the job in the Failed state.
func (j *Job[K, V, R]) Run() ([]R, error) {
	if j.State != Idle {
		return nil, fmt.Errorf("task %s: job already %s", j.Name, j.State)
	}
	if j.Mapf == nil || j.Reducef == nil {
		return nil, fmt.Errorf("task %s: map and reduce functions are required", j.Name)
	}
	if j.log == nil {
		j.log = log.WithFields(log.Fields{"run_id": j.UUID, "task": j.Name})
	}

	j.setState(Mapping)
	mapCtx := newMrContext[K, V]()
	if err := j.Mapf(mapCtx); err != nil {
		return nil, j.fail(err)
	}
	j.log.WithField("pairs", mapCtx.Len()).Info("[Job] Mapping finished")

	if j.DumpIMD {
		fname, err := writeIMDToLocalFile(j.IMDDir, j.UUID, j.Name, mapCtx.kvs)
		if err != nil {
			return nil, j.fail(err)
		}
		j.IMDFile = fname
		j.log.WithField("file", fname).Debug("[Job] Wrote intermediate pairs")
	}

	j.setState(Grouping)
	groups := GroupByKey(mapCtx.kvs)
	for i := range groups {
		if j.ValueOrder != nil {
			slices.SortStableFunc(groups[i].Values, j.ValueOrder)
		}
		if j.Combinef != nil {
			v, err := j.Combinef(groups[i].Key, groups[i].Values)
			if err != nil {
				return nil, j.fail(err)
			}
			groups[i].Values = []V{v}
		}
	}
	j.log.WithField("groups", len(groups)).Info("[Job] Grouping finished")

	j.setState(Reducing)
	results := make([]R, 0, len(groups))
	for _, g := range groups {
		r, err := j.Reducef(g.Key, g.Values)
		if err != nil {
			return nil, j.fail(fmt.Errorf("key %v: %w", g.Key, err))
		}
		results = append(results, r)
	}
	j.setState(Done)
	j.log.WithField("results", len(results)).Info("[Job] Reducing finished")
	return results, nil
}

func (j *Job[K, V, R]) setState(s State) {
	j.State = s
	j.log.WithField("state", s.String()).Trace("[Job] State change")
}

func (j *Job[K, V, R]) fail(err error) error {
	at := j.State
	j.State = Failed
	j.log.WithField("state", at.String()).Error(err)
	return fmt.Errorf("task %s %s: %w", j.Name, at, err)
}
