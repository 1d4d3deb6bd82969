package bootstrap

import (
	"context"
	"fmt"

	sdk "github.com/github/copilot-sdk/go"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/internal/infrastructure/config"
	"jetlag-advisor/internal/infrastructure/oauth"
	"jetlag-advisor/internal/infrastructure/persistence"
	repo "jetlag-advisor/internal/interface/repository"
	"jetlag-advisor/internal/usecase"
	"jetlag-advisor/pkg/logger"
	"jetlag-advisor/pkg/metrics"
)

// App holds every collaborator of the pipeline, built once at process start.
type App struct {
	Config  *config.Config
	Metrics *metrics.Metrics
	Stores  *Stores

	Orchestrator *usecase.Orchestrator
	Schedule     *usecase.ScheduleStage
	Calendar     *usecase.CalendarReader
	Health       *usecase.HealthService
	Checker      *usecase.HealthChecker
	Runner       *usecase.BackgroundRunner
	JobRepo      repository.ScheduleJobRepository

	copilot *sdk.Client
	gormDB  *gorm.DB
	logger  logger.Logger
}

// Build wires the application from configuration. Optional collaborators (Postgres reference
// data, Google Calendar export) are skipped with a warning when unavailable.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{
		Config:  cfg,
		Metrics: metrics.NewMetrics("jetlag"),
		logger:  log,
	}

	agents, err := config.LoadAgents(cfg.AgentsFile)
	if err != nil {
		return nil, err
	}

	stores, err := OpenStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	app.Stores = stores
	pipelineStore, healthStore := stores.Pipeline, stores.Health

	// Optional reference data and job audit
	var (
		airlineRepo  repository.AirlineRepository
		timezoneRepo repository.TimezoneRepository
	)
	if cfg.PostgresURI != "" {
		db, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Warn("PostgreSQL unavailable, reference data and job audit disabled", "error", err)
		} else {
			app.gormDB = db
			reference := repo.NewGormReferenceRepository(db)
			airlineRepo, timezoneRepo = reference, reference
			jobRepo := repo.NewGormScheduleJobRepository(db)
			if err := jobRepo.AutoMigrate(); err != nil {
				log.Warn("Failed to migrate schedule_jobs, job audit disabled", "error", err)
			} else {
				app.JobRepo = jobRepo
			}
		}
	}

	// Optional Google Calendar export
	var publisher repository.CalendarPublisher
	if cfg.CalendarExportEnabled() {
		calendarOAuth := oauth.NewCalendarOAuth(cfg.CalendarClientID, cfg.CalendarClientSecret, cfg.CalendarRefreshToken, "", log)
		publisher, err = repo.NewGoogleCalendarPublisher(ctx, calendarOAuth.GetTokenSource(ctx), cfg.CalendarID, log)
		if err != nil {
			log.Warn("Google Calendar export disabled", "error", err)
			publisher = nil
		}
	}

	// Generation
	app.copilot = sdk.NewClient(&sdk.ClientOptions{LogLevel: "error"})
	if err := app.copilot.Start(); err != nil {
		app.copilot = nil
		app.Close(ctx)
		return nil, fmt.Errorf("failed to start Copilot client: %w", err)
	}
	generator := repo.NewCopilotGenerator(app.copilot, cfg.CopilotModel, cfg.GenerationTimeout, log)

	// Flight lookup
	lookup := repo.NewAmadeusFlightLookup(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusBaseURL, cfg.AmadeusTimeout, log)
	var checkedLookup repository.FlightLookup = lookup
	if !cfg.AmadeusConfigured() {
		log.Warn("AMADEUS_CLIENT_ID / AMADEUS_CLIENT_SECRET not set, flight lookups will fail")
		checkedLookup = nil
	}

	observers := usecase.NewObservers(log,
		usecase.NewLoggingObserver(log),
		usecase.NewMetricsObserver(app.Metrics),
	)

	snapshots := repo.NewBlobHealthSnapshotRepository(healthStore)
	correlator := usecase.NewHealthCorrelator(snapshots, log,
		usecase.WithWindowDays(cfg.HealthWindowDays),
		usecase.WithHighThreshold(cfg.HighHeartRateThreshold),
	)

	app.Runner = usecase.NewBackgroundRunner(cfg.ScheduleWorkers, log)
	app.Schedule = usecase.NewScheduleStage(generator, pipelineStore, agents.SchedulePlanner, publisher, app.JobRepo, observers, log)
	app.Orchestrator = usecase.NewOrchestrator(
		lookup,
		usecase.NewFlightNormalizer(log),
		correlator,
		usecase.NewReferenceData(airlineRepo, timezoneRepo, log),
		usecase.NewRecommendationStage(generator, pipelineStore, agents.TravelAssistant, agents.HealthMonitor, observers, log),
		app.Schedule,
		app.Runner,
		observers,
		log,
	)
	app.Calendar = usecase.NewCalendarReader(pipelineStore, log)
	app.Health = usecase.NewHealthService(snapshots, correlator, log)
	app.Checker = usecase.NewHealthChecker(generator, checkedLookup, pipelineStore, cfg.AppVersion)

	return app, nil
}

// Stores are the named stores of the pipeline. Recommendation and calendar traffic share one
// lock; the health snapshot has its own.
type Stores struct {
	Pipeline repository.BlobStore
	Health   repository.BlobStore

	mongoClient *mongo.Client
	logger      logger.Logger
}

// OpenStores connects the configured store backend.
func OpenStores(ctx context.Context, cfg *config.Config, log logger.Logger) (*Stores, error) {
	stores := &Stores{logger: log}
	var inner repository.BlobStore

	switch cfg.StoreBackend {
	case config.StoreBackendMongo:
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			return nil, err
		}
		stores.mongoClient = client
		inner = repo.NewMongoBlobStore(db)
	case config.StoreBackendCosmos:
		log.Info("Connecting to Cosmos DB", "endpoint", cfg.CosmosEndpoint, "emulator", cfg.UseEmulator)
		store, err := repo.NewCosmosBlobStore(cfg.CosmosEndpoint, cfg.CosmosDatabase, cfg.CosmosContainer, cfg.UseEmulator)
		if err != nil {
			return nil, err
		}
		inner = store
	default:
		store, err := repo.NewFileBlobStore(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		inner = store
	}

	stores.Pipeline = repo.NewLockedBlobStore(inner)
	stores.Health = repo.NewLockedBlobStore(inner)
	return stores, nil
}

// Close disconnects the backend.
func (s *Stores) Close(ctx context.Context) {
	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			s.logger.Error("MongoDB disconnect error", "error", err)
		}
	}
}

// Close releases external connections. Background jobs should be drained with Runner.Wait first.
func (a *App) Close(ctx context.Context) {
	if a.copilot != nil {
		a.copilot.Stop()
	}
	if a.Stores != nil {
		a.Stores.Close(ctx)
	}
	if a.gormDB != nil {
		if err := persistence.ClosePostgresDB(a.gormDB); err != nil {
			a.logger.Error("PostgreSQL close error", "error", err)
		}
	}
}
