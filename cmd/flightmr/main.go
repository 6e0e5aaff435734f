package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/emptyOVO/flightmr"
	"github.com/emptyOVO/flightmr/batch"
	"github.com/emptyOVO/flightmr/batch/sql_batch"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	must(newRootCmd().Execute())
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	rootCmd := &cobra.Command{
		Use:   "flightmr",
		Short: "Passenger and airport reports built on map, group and reduce",
		Long: `flightmr validates passenger flight records and an airport lookup table, then
computes departures per airport, flight itineraries and passengers per flight.
Without --config the inputs are read from CSV files named by FLIGHTMR_FLIGHTS
and FLIGHTMR_AIRPORTS and results are written to FLIGHTMR_OUT_DIR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Flow config file path (JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", getenvDefault("FLIGHTMR_LOG_LEVEL", "info"), "Log level")

	rootCmd.AddCommand(
		newRunCmd(&configPath),
		newMenuCmd(&configPath),
		newCheckCmd(&configPath),
		newWatchCmd(&configPath),
		newPrepareCmd(&configPath),
		newValidateCmd(&configPath),
	)
	return rootCmd
}

// tasksFromArgs maps task arguments to task numbers. No arguments or "all"
// selects every task.
func tasksFromArgs(args []string) ([]int, error) {
	var out []int
	for _, a := range args {
		if strings.EqualFold(a, "all") {
			return nil, nil
		}
		t, err := flightmr.ParseTask(a)
		if err != nil {
			return nil, err
		}
		out = append(out, int(t))
	}
	return out, nil
}

func newRunCmd(configPath *string) *cobra.Command {
	var benchmark bool
	cmd := &cobra.Command{
		Use:   "run [task...]",
		Short: "Run tasks (1, 2, 3 or all) and write their tables to the sink",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveFlowConfig(*configPath)
			if err != nil {
				return err
			}
			tasks, err := tasksFromArgs(args)
			if err != nil {
				return err
			}
			if len(tasks) > 0 {
				cfg.Transform.Tasks = tasks
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if !benchmark {
				if err := batch.RunFlow(ctx, cfg); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "flow done")
				return nil
			}
			res, err := batch.RunFlowBenchmark(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "source=%s transform=%s sink=%s total=%s\n",
				res.SourceDuration, res.TransformDuration, res.SinkDuration, res.TotalDuration)
			return nil
		},
	}
	cmd.Flags().BoolVar(&benchmark, "benchmark", false, "Report stage durations")
	return cmd
}

func newMenuCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Load the datasets once and pick tasks interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveFlowConfig(*configPath)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			s, err := batch.LoadSession(ctx, cfg)
			if err != nil {
				return err
			}
			return runMenu(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), s, cfg.Sink)
		},
	}
}

func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the flow config without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := resolveFlowConfig(*configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config check pass")
			return nil
		},
	}
}

func newWatchCmd(configPath *string) *cobra.Command {
	var (
		schedule string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the flow now and again whenever an input file changes or the schedule fires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveFlowConfig(*configPath)
			if err != nil {
				return err
			}
			paths := batch.InputPaths(cfg)
			if len(paths) == 0 && schedule == "" {
				return fmt.Errorf("nothing to watch: source has no local files and --schedule is empty")
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runner := &serialRunner{run: func(reason string) {
				l := log.WithField("reason", reason)
				l.Info("[Watch] Running flow")
				if err := batch.RunFlow(ctx, cfg); err != nil {
					l.Errorf("[Watch] Flow failed: %v", err)
					return
				}
				l.Info("[Watch] Flow done")
			}}
			runner.trigger("start")

			if len(paths) > 0 {
				ft, err := newFileTrigger(paths, debounce, func(path string) { runner.trigger(path) })
				if err != nil {
					return err
				}
				defer ft.Close()
				log.Infof("[Watch] Watching %d file(s)", len(paths))
			}
			if schedule != "" {
				c, err := startSchedule(schedule, func() { runner.trigger("schedule") })
				if err != nil {
					return fmt.Errorf("invalid --schedule %q: %w", schedule, err)
				}
				defer c.Stop()
				log.Infof("[Watch] Scheduled %q", schedule)
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression for periodic runs")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Quiet period after a file change before running")
	return cmd
}

func newPrepareCmd(configPath *string) *cobra.Command {
	var pcfg batch.PrepareConfig
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Create synthetic flights and airports tables in the sql source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveFlowConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Source.Type != "sql" {
				return fmt.Errorf("prepare needs source.type=sql")
			}
			ctx := context.Background()
			db, err := batch.OpenForApp(ctx, cfg.Source.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			if cfg.Source.SQL.FlightsTable != "" {
				pcfg.FlightsTable = cfg.Source.SQL.FlightsTable
			}
			if cfg.Source.SQL.AirportsTable != "" {
				pcfg.AirportsTable = cfg.Source.SQL.AirportsTable
			}
			if err := batch.PrepareSyntheticSource(ctx, db, pcfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "prepare done")
			return nil
		},
	}
	cmd.Flags().IntVar(&pcfg.Airports, "airports", 30, "Number of airports")
	cmd.Flags().IntVar(&pcfg.Flights, "flights", 1000, "Number of flights")
	cmd.Flags().IntVar(&pcfg.Passengers, "passengers", 20, "Passengers per flight")
	return cmd
}

func newValidateCmd(configPath *string) *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare the passengers table in the sql sink with a count over the sql source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveFlowConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Source.Type != "sql" || cfg.Sink.Type != "sql" {
				return fmt.Errorf("validate needs source.type=sql and sink.type=sql")
			}
			ctx := context.Background()
			db, err := batch.OpenForApp(ctx, cfg.Sink.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			src := cfg.Source.SQL
			src.WithDefaults()
			err = batch.ValidateAggregation(ctx, db, batch.ValidateConfig{
				SourceTable: src.FlightsTable,
				TargetTable: sql_batch.NewSinkAdapter(cfg.Sink.SQL).TableName("t3"),
				RunID:       runID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "validate pass")
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "Only compare rows of this sink run")
	return cmd
}
