package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"lingoboard/internal/config"
	"lingoboard/internal/datasource"
	"lingoboard/internal/db"
	"lingoboard/internal/handlers"
	"lingoboard/internal/logger"
	"lingoboard/internal/router"
	"lingoboard/internal/services"
	"lingoboard/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(cfg.Log, cfg.Server.DevelopMode)
	defer logger.Sync()

	source, err := newSource(cfg.Source, cfg.Server.DevelopMode)
	if err != nil {
		logger.Errorf("Failed to initialize %s data source: %+v", cfg.Source.Mode, err)
		os.Exit(1)
	}
	logger.Infof("Using %s data source", cfg.Source.Mode)

	if err := handlers.InitTrans(cfg.Server.Lang); err != nil {
		logger.Errorf("Failed to initialize validation messages: %+v", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cacheOpts := []services.CacheOption{services.WithRegisterer(registry)}
	if cfg.Activity.CacheSize > 0 {
		store, err := utils.NewLRUStore[string, services.CachedActivity](cfg.Activity.CacheSize)
		if err != nil {
			logger.Errorf("Failed to create activity store: %+v", err)
			os.Exit(1)
		}
		cacheOpts = append(cacheOpts, services.WithStore(store))
	}

	clock := services.SystemClock{}
	aggregator := services.NewAggregator(source, clock)
	activity := services.NewActivityCache(aggregator.Aggregate, cacheOpts...)

	if !cfg.Server.DevelopMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery(true))
	router.RegisterRoutes(r, router.Deps{
		Community:      services.NewCommunityService(source),
		Moderator:      services.NewModerator(source, activity, clock),
		Activity:       activity,
		Gatherer:       registry,
		AdminTokenHash: cfg.Auth.AdminTokenHash,
		DevelopMode:    cfg.Server.DevelopMode,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Infof("Shutting down HTTP server...")
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("Server shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logger.Infof("lingoboard server starting on :%s", cfg.Server.Port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("HTTP server ListenAndServe: %v", err)
		return
	}

	<-idleConnsClosed
	logger.Infof("Server closed")
}

func newSource(cfg config.SourceConfig, develop bool) (datasource.Source, error) {
	switch cfg.Mode {
	case config.ModeMock:
		return datasource.NewMockSource(cfg.MockLatency)
	case config.ModeDB:
		conn, err := db.Init(cfg.DatabaseURL, develop)
		if err != nil {
			return nil, err
		}
		return datasource.NewGormSource(conn), nil
	case config.ModeREST:
		if cfg.BackendBaseURL == "" {
			return nil, errors.New("BACKEND_BASE_URL is required in rest mode")
		}
		client := &http.Client{Timeout: cfg.BackendTimeout}
		return datasource.NewRESTSource(cfg.BackendBaseURL, client, cfg.PageLimit,
			datasource.WithRateLimit(cfg.RateLimit, cfg.RateBurst)), nil
	default:
		return nil, errors.Errorf("unknown DATA_MODE %q", cfg.Mode)
	}
}
