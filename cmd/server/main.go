package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/config"
	"github.com/autoflex/inventory/internal/repository"
	"github.com/autoflex/inventory/internal/repository/memory"
	"github.com/autoflex/inventory/internal/repository/mongodb"
	"github.com/autoflex/inventory/internal/repository/sheets"
	"github.com/autoflex/inventory/internal/scheduler"
	"github.com/autoflex/inventory/internal/server/handlers"
	"github.com/autoflex/inventory/internal/server/router"
	inventorysvc "github.com/autoflex/inventory/internal/service/inventory"
	reportingsvc "github.com/autoflex/inventory/internal/service/reporting"
	"github.com/autoflex/inventory/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Logging.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store repository.Store
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		baseLogger.Warn("using in-memory storage, data will not survive restarts")
		store = memory.NewStore()
	default:
		mongoStore, err := mongodb.NewStore(context.Background(), cfg.Storage.URI, cfg.Storage.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
		}
		store = mongoStore
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		sheetExporter, err := sheets.NewSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("sheets report export enabled")
	}

	inventorySvc := inventorysvc.NewService(store, baseLogger.Named("svc.inventory"))
	reportingSvc := reportingsvc.NewService(inventorySvc, store, exporter, baseLogger.Named("svc.reporting"))

	materialsHandler := handlers.NewMaterialsHandler(inventorySvc, baseLogger.Named("handlers.materials"))
	productsHandler := handlers.NewProductsHandler(inventorySvc, reportingSvc, baseLogger.Named("handlers.products"))
	reportsHandler := handlers.NewReportsHandler(reportingSvc, baseLogger.Named("handlers.reports"))
	engine := router.New(materialsHandler, productsHandler, reportsHandler, baseLogger.Named("router"), cfg.Metrics.Enabled)

	sched := scheduler.NewScheduler(*cfg, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
