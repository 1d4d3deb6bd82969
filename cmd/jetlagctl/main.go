package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/infrastructure/bootstrap"
	"jetlag-advisor/internal/infrastructure/config"
	"jetlag-advisor/internal/infrastructure/persistence"
	repo "jetlag-advisor/internal/interface/repository"
	"jetlag-advisor/internal/usecase"
	"jetlag-advisor/pkg/logger"
)

var (
	logLevel string
	asJSON   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jetlagctl",
		Short:         "Run the jet-lag recommendation pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(recommendCmd(), scheduleCmd(), calendarCmd(), healthCmd(), jobCmd())
	return root
}

type flightFlags struct {
	carrier string
	number  string
	date    string
}

func (f *flightFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.carrier, "carrier", "", "carrier code, e.g. UA")
	cmd.Flags().StringVar(&f.number, "number", "", "flight number, e.g. 2116")
	cmd.Flags().StringVar(&f.date, "date", "", "scheduled departure date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("carrier")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("date")
}

func (f *flightFlags) designator() (entity.FlightDesignator, error) {
	if _, err := time.Parse("2006-01-02", f.date); err != nil {
		return entity.FlightDesignator{}, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
	}
	return entity.FlightDesignator{
		CarrierCode:            f.carrier,
		FlightNumber:           f.number,
		ScheduledDepartureDate: f.date,
	}, nil
}

func recommendCmd() *cobra.Command {
	var flags flightFlags
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate recommendations for a flight and wait for the calendar job",
		RunE: func(cmd *cobra.Command, args []string) error {
			designator, err := flags.designator()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				result, err := app.Orchestrator.Run(ctx, designator)
				if err != nil {
					return err
				}

				if result.ScheduleStatus == usecase.ScheduleStatusLaunched {
					waitCtx, cancel := context.WithTimeout(ctx, app.Config.GenerationTimeout+30*time.Second)
					defer cancel()
					if err := app.Runner.Wait(waitCtx); err != nil {
						fmt.Fprintf(os.Stderr, "schedule job %s still running: %v\n", result.ScheduleJobID, err)
					}
				}

				if asJSON {
					return printJSON(cmd.OutOrStdout(), result)
				}
				printResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func scheduleCmd() *cobra.Command {
	var flags flightFlags
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Regenerate the calendar from the stored recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			designator, err := flags.designator()
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				flight, err := app.Orchestrator.FetchFlight(ctx, designator)
				if err != nil {
					return err
				}
				req := usecase.NewScheduleRequest(uuid.NewString(), flight)
				app.Schedule.RecordPending(ctx, req)
				events, err := app.Schedule.Run(ctx, req)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), events)
				}
				printEvents(cmd.OutOrStdout(), events)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Print the events in the calendar store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd.Context(), func(ctx context.Context, cfg *config.Config, stores *bootstrap.Stores, log logger.Logger) error {
				events := usecase.NewCalendarReader(stores.Pipeline, log).Events(ctx)
				if asJSON {
					return printJSON(cmd.OutOrStdout(), events)
				}
				printEvents(cmd.OutOrStdout(), events)
				return nil
			})
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the current sleep heart-rate signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd.Context(), func(ctx context.Context, cfg *config.Config, stores *bootstrap.Stores, log logger.Logger) error {
				snapshots := repo.NewBlobHealthSnapshotRepository(stores.Health)
				correlator := usecase.NewHealthCorrelator(snapshots, log,
					usecase.WithWindowDays(cfg.HealthWindowDays),
					usecase.WithHighThreshold(cfg.HighHeartRateThreshold),
				)
				sig := usecase.NewHealthService(snapshots, correlator, log).Signal(ctx)
				if asJSON {
					return printJSON(cmd.OutOrStdout(), sig)
				}
				printSignal(cmd.OutOrStdout(), sig)
				return nil
			})
		},
	}
}

func jobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job <job-id>",
		Short: "Show the audit row of a schedule job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, cfg, log, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()
			defer log.Sync()

			if cfg.PostgresURI == "" {
				return fmt.Errorf("POSTGRES_DSN is not set, schedule jobs are not recorded")
			}
			db, err := persistence.NewPostgresDB(cfg.PostgresURI)
			if err != nil {
				return err
			}
			defer persistence.ClosePostgresDB(db)

			job, err := repo.NewGormScheduleJobRepository(db).FindByJobID(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), job)
			}
			printJob(cmd.OutOrStdout(), job)
			return nil
		},
	}
}

func setup(parent context.Context) (context.Context, context.CancelFunc, *config.Config, *logger.ZapLogger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log := logger.NewLogger(level)

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return ctx, cancel, cfg, log, nil
}

func withApp(parent context.Context, fn func(context.Context, *bootstrap.App) error) error {
	ctx, cancel, cfg, log, err := setup(parent)
	if err != nil {
		return err
	}
	defer cancel()
	defer log.Sync()

	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		app.Close(closeCtx)
	}()
	return fn(ctx, app)
}

func withStores(parent context.Context, fn func(context.Context, *config.Config, *bootstrap.Stores, logger.Logger) error) error {
	ctx, cancel, cfg, log, err := setup(parent)
	if err != nil {
		return err
	}
	defer cancel()
	defer log.Sync()

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		stores.Close(closeCtx)
	}()
	return fn(ctx, cfg, stores, log)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, result *usecase.PipelineResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRow(table.Row{"Run", result.RunID})
	tw.AppendRow(table.Row{"Flight", result.Flight.FlightDesignator.Key()})
	tw.AppendRow(table.Row{"Route", result.Flight.Departure.AirportCode + " -> " + result.Flight.Arrival.AirportCode})
	tw.AppendRow(table.Row{"Departure (UTC)", result.Flight.Departure.ScheduledTimeISO})
	tw.AppendRow(table.Row{"Arrival (UTC)", result.Flight.Arrival.ScheduledTimeISO})
	tw.AppendRow(table.Row{"Direction", string(result.Direction)})
	tw.AppendRow(table.Row{"Health signal", result.HealthSignal.Classification()})
	tw.AppendRow(table.Row{"Schedule", result.ScheduleStatus})
	if rec := result.Recommendations; rec != nil {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{"Sleep adjustment", rec.SleepSchedule.AdjustmentPeriodAdvice})
		tw.AppendRow(table.Row{"Bedtime", rec.SleepSchedule.RecommendedBedtimeLocal})
		tw.AppendRow(table.Row{"Wake time", rec.SleepSchedule.RecommendedWakeTimeLocal})
		tw.AppendRow(table.Row{"Naps", rec.SleepSchedule.NapStrategyAdvice})
		tw.AppendRow(table.Row{"Hydration", rec.HydrationPlan.DailyTargetLiters})
		tw.AppendRow(table.Row{"Light exposure", rec.Personalization.LightExposureAdvice})
	}
	tw.Render()
}

func printEvents(w io.Writer, events []entity.ScheduleEvent) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Start", "End", "Duration", "Title"})
	for _, ev := range events {
		duration := ""
		start, startErr := ev.StartTime()
		end, endErr := ev.EndTime()
		if startErr == nil && endErr == nil {
			duration = end.Sub(start).String()
		}
		tw.AppendRow(table.Row{ev.Start, ev.End, duration, ev.Title})
	}
	tw.AppendFooter(table.Row{"", "", "Total", len(events)})
	tw.Render()
}

func printSignal(w io.Writer, sig entity.HealthSignal) {
	avg := "n/a"
	if sig.HasAverage() {
		avg = strconv.FormatFloat(*sig.AverageSleepHeartRate, 'f', 1, 64)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Average BPM", "High", "Window (days)", "Sessions", "Samples", "Reason"})
	tw.AppendRow(table.Row{avg, sig.IsHigh, sig.WindowDays, sig.SessionsUsed, sig.SamplesUsed, sig.Reason})
	tw.Render()
}

func printJob(w io.Writer, job *entity.ScheduleJob) {
	finished := ""
	if job.FinishedAt != nil {
		finished = job.FinishedAt.UTC().Format(time.RFC3339)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Job", "Flight", "Status", "Events", "Finished", "Error"})
	tw.AppendRow(table.Row{job.JobID, job.FlightKey, job.Status, job.EventCount, finished, job.ErrorDetail})
	tw.Render()
}
