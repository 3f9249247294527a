package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xpanvictor/meetsec/internal/app"
	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/internal/handlers"
	"github.com/xpanvictor/meetsec/internal/metrics"
	"github.com/xpanvictor/meetsec/internal/server"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

// This is the main entry point for the API server.
// Loads in all system components
// Exposes the meeting pipeline over HTTP
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.BuildLogger(cfg.Debug, cfg.LogLevel)
	defer logger.Sync()
	logger.Info("Logger initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, cfg, logger, metrics.Default())
	if err != nil {
		logger.Fatalf("Failed to initialise application: %v", err)
	}
	defer a.Close()

	router := server.NewRouter(server.Dependencies{
		Meetings: handlers.NewMeetingHandler(a.Secretary, cfg.Server.MaxUploadMB, logger.Named("http")),
		Health:   handlers.NewHealthHandler(a.TrackerName()),
		Metrics:  promhttp.Handler(),
		Logger:   logger.Named("http"),
	})

	// listen with graceful exit
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server exiting: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	logger.Info("Shutdown system")
}
