package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/spend-calendar/internal/classifier"
	"github.com/Dan9191/spend-calendar/internal/config"
	"github.com/Dan9191/spend-calendar/internal/handler"
	"github.com/Dan9191/spend-calendar/internal/integrations/cbr"
	"github.com/Dan9191/spend-calendar/internal/middleware"
	"github.com/Dan9191/spend-calendar/internal/models"
	"github.com/Dan9191/spend-calendar/internal/repository"
	"github.com/Dan9191/spend-calendar/internal/scheduler"
	"github.com/Dan9191/spend-calendar/internal/service"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize storage
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	// Region thresholds
	var overrides map[string]models.RegionProfile
	if cfg.RegionsFile != "" {
		if overrides, err = classifier.LoadRegionsFile(cfg.RegionsFile); err != nil {
			logger.Fatalf("Failed to load regions: %v", err)
		}
		logger.Infof("Loaded %d region profiles from %s", len(overrides), cfg.RegionsFile)
	}
	regions := classifier.NewRegistry(overrides)

	var rates service.RateSource
	if cfg.CBREnabled {
		rates = cbr.NewCBRClient(cfg, logger)
	}

	// Initialize layers
	svc, err := service.NewService(store, logger, cfg, regions, rates)
	if err != nil {
		logger.Fatalf("Failed to initialize service: %v", err)
	}
	h := handler.NewHandler(svc, logger)

	sched, err := scheduler.NewScheduler(svc, logger, cfg.RebalanceSchedule)
	if err != nil {
		logger.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Setup router
	r := mux.NewRouter()
	h.RegisterRoutes(r, middleware.AuthMiddleware(cfg))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      c.Handler(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start()
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	sched.Stop(shutdownCtx)
}

func openStore(cfg *config.Config, logger *logrus.Logger) (repository.Store, func(), error) {
	if cfg.Store == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := repository.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewPostgresStore(db), func() { db.Close() }, nil
}
