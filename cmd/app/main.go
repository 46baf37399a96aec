package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	gormDB := mustOpenDB(configs)
	if configs.DBAutoMigrate {
		if err := postgres.Migrate(gormDB); err != nil {
			log.Fatalf("Error migrating database: %v", err)
		}
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := app.CreateMetrics(registry)
	if err != nil {
		log.Fatalf("Error registering metrics: %v", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Error configuring jobs: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, metrics, registry, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(cmd.EnvLookup)
	if err != nil {
		log.Fatalf("Error reading configuration: %v", err)
	}
	return config
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(postgresdriver.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, metrics *httpin.Metrics, registry *prometheus.Registry, port string, logger *slog.Logger) {
	e := httpin.NewRouter(app.CreateServer(metrics), metrics, registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting web server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("web server shutdown failed", "error", err.Error())
	}
}
