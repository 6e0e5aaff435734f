package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/emptyOVO/flightmr"
	"github.com/emptyOVO/flightmr/batch/csv_batch"
	"github.com/emptyOVO/flightmr/dataset"
	"github.com/emptyOVO/flightmr/mrapps"
	log "github.com/sirupsen/logrus"
)

// FlowConfig describes a source -> validate -> tasks -> sink run.
type FlowConfig struct {
	Version   string              `json:"version"`
	Source    FlowSourceConfig    `json:"source"`
	Transform FlowTransformConfig `json:"transform"`
	Sink      FlowSinkConfig      `json:"sink"`
}

type FlowSourceConfig struct {
	Type string          `json:"type"`
	CSV  CSVSourceConfig `json:"csv"`
	DB   DBConfig        `json:"db"`
	SQL  SQLSourceConfig `json:"sql"`
}

type FlowTransformConfig struct {
	// Tasks lists task numbers in run order; empty runs all three.
	Tasks               []int  `json:"tasks"`
	SkipCharacterPolicy bool   `json:"skip_character_policy"`
	SkipFlightIDPolicy  bool   `json:"skip_flight_id_policy"`
	JoinMiss            string `json:"join_miss"`
	DumpIntermediate    bool   `json:"dump_intermediate"`
	IntermediateDir     string `json:"intermediate_dir"`
}

type FlowSinkConfig struct {
	Type        string          `json:"type"`
	CSV         CSVSinkConfig   `json:"csv"`
	DB          DBConfig        `json:"db"`
	SQL         SQLSinkConfig   `json:"sql"`
	Redis       RedisConnConfig `json:"redis"`
	RedisConfig RedisSinkConfig `json:"redis_config"`
}

func (c *FlowConfig) withDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = "csv"
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "csv"
	}
	if len(c.Transform.Tasks) == 0 {
		for _, t := range flightmr.AllTasks {
			c.Transform.Tasks = append(c.Transform.Tasks, int(t))
		}
	}
	if c.Transform.IntermediateDir == "" {
		c.Transform.IntermediateDir = "."
	}
	c.Source.CSV.WithDefaults()
	c.Source.SQL.WithDefaults()
	c.Sink.CSV.WithDefaults()
	c.Sink.SQL.WithDefaults()
	c.Sink.Redis.WithDefaults()
	c.Sink.RedisConfig.WithDefaults()
}

// Policies maps the transform switches onto validation rules.
func (c FlowTransformConfig) Policies() flightmr.Policies {
	p := flightmr.DefaultPolicies
	if c.SkipCharacterPolicy {
		p.Flights.CharacterPolicy = false
	}
	if c.SkipFlightIDPolicy {
		p.Flights.FlightIDPolicy = false
	}
	return p
}

// Options maps the transform switches onto task options.
func (c FlowTransformConfig) Options() (flightmr.Options, error) {
	policy, err := mrapps.ParseJoinMissPolicy(c.JoinMiss)
	if err != nil {
		return flightmr.Options{}, err
	}
	return flightmr.Options{
		JoinMiss:         policy,
		DumpIntermediate: c.DumpIntermediate,
		IntermediateDir:  c.IntermediateDir,
	}, nil
}

// TaskList resolves the configured task numbers.
func (c FlowTransformConfig) TaskList() ([]flightmr.Task, error) {
	out := make([]flightmr.Task, 0, len(c.Tasks))
	seen := make(map[int]bool, len(c.Tasks))
	for _, n := range c.Tasks {
		t, err := flightmr.ParseTask(fmt.Sprint(n))
		if err != nil {
			return nil, err
		}
		if seen[n] {
			return nil, fmt.Errorf("task %d listed twice", n)
		}
		seen[n] = true
		out = append(out, t)
	}
	return out, nil
}

// FlowBenchmarkResult captures source/transform/sink stage durations.
type FlowBenchmarkResult struct {
	SourceDuration    time.Duration
	TransformDuration time.Duration
	SinkDuration      time.Duration
	TotalDuration     time.Duration
}

// LoadSession reads both inputs from the configured source and validates
// them once.
func LoadSession(ctx context.Context, cfg FlowConfig) (*flightmr.Session, error) {
	cfg.withDefaults()
	if err := ValidateFlowConfig(cfg); err != nil {
		return nil, err
	}
	return loadSession(ctx, cfg)
}

func loadSession(ctx context.Context, cfg FlowConfig) (*flightmr.Session, error) {
	flights, airports, err := readSource(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Transform.Options()
	if err != nil {
		return nil, err
	}
	return flightmr.NewSession(flights, airports, cfg.Transform.Policies(), opts)
}

// WriteTable stores one result table in the configured sink.
func WriteTable(ctx context.Context, cfg FlowSinkConfig, t dataset.Table) error {
	sink, err := openSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer sink.close()
	return sink.write(ctx, t)
}

// RunFlow executes source -> tasks -> sink defined by FlowConfig.
func RunFlow(ctx context.Context, cfg FlowConfig) error {
	_, err := runFlowInternal(ctx, cfg, false)
	return err
}

// RunFlowBenchmark executes a config-driven flow and reports stage durations.
func RunFlowBenchmark(ctx context.Context, cfg FlowConfig) (FlowBenchmarkResult, error) {
	return runFlowInternal(ctx, cfg, true)
}

// Each task's table is written as soon as the task succeeds. A failing task
// stops the flow and the tables of earlier tasks stay written.
func runFlowInternal(ctx context.Context, cfg FlowConfig, collectDur bool) (FlowBenchmarkResult, error) {
	var bench FlowBenchmarkResult
	started := time.Now()

	cfg.withDefaults()
	if err := ValidateFlowConfig(cfg); err != nil {
		return bench, err
	}
	tasks, err := cfg.Transform.TaskList()
	if err != nil {
		return bench, err
	}

	sSource := time.Now()
	session, err := loadSession(ctx, cfg)
	if err != nil {
		return bench, err
	}
	if collectDur {
		bench.SourceDuration = time.Since(sSource)
	}

	sink, err := openSink(ctx, cfg.Sink)
	if err != nil {
		return bench, err
	}
	defer sink.close()

	for _, t := range tasks {
		sTransform := time.Now()
		table, err := RunTask(ctx, session, t)
		if err != nil {
			return bench, err
		}
		if collectDur {
			bench.TransformDuration += time.Since(sTransform)
		}

		sSink := time.Now()
		if err := sink.write(ctx, table); err != nil {
			return bench, fmt.Errorf("sink %s: %w", table.Name, err)
		}
		if collectDur {
			bench.SinkDuration += time.Since(sSink)
		}
		log.WithFields(log.Fields{
			"task": t.String(),
			"rows": len(table.Rows),
		}).Info("[Flow] Task output written")
	}

	if collectDur {
		bench.TotalDuration = time.Since(started)
	}
	return bench, nil
}

// InputPaths lists local files a flow reads, for change watching. Only the
// csv source has any.
func InputPaths(cfg FlowConfig) []string {
	cfg.withDefaults()
	if cfg.Source.Type != "csv" {
		return nil
	}
	return csv_batch.NewSourceAdapter(cfg.Source.CSV).Paths()
}
