package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jetlag-advisor/internal/infrastructure/bootstrap"
	"jetlag-advisor/internal/infrastructure/config"
	"jetlag-advisor/internal/infrastructure/router"
	"jetlag-advisor/internal/interface/httpapi"
	"jetlag-advisor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Jetlag Advisor", "version", cfg.AppVersion, "store", cfg.StoreBackend)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", "error", err)
	}

	handler := httpapi.NewHandler(app.Orchestrator, app.Calendar, app.Health, app.Checker, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(handler, app.Metrics.Handler(), log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	// Let in-flight schedule jobs finish; they are never cancelled
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout+30*time.Second)
	defer drainCancel()
	if err := app.Runner.Wait(drainCtx); err != nil {
		log.Warn("Schedule jobs still running at shutdown", "error", err)
	}

	cancel()
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	app.Close(closeCtx)

	log.Info("Jetlag Advisor stopped")
}
