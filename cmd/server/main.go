package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/ledger-form/internal/application/service"
	"github.com/damon-houk/ledger-form/internal/infrastructure/config"
	"github.com/damon-houk/ledger-form/internal/infrastructure/db"
	"github.com/damon-houk/ledger-form/internal/infrastructure/handler"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
	"github.com/damon-houk/ledger-form/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log := logger.NewJSONLogger(os.Stdout, cfg.Log.Level)
	logger.SetDefaultLogger(log)

	log.Info("Starting ledger service", map[string]interface{}{
		"addr":     cfg.Server.Addr(),
		"data_dir": cfg.Server.DataDir,
	})

	// Setup BadgerDB
	if err := os.MkdirAll(cfg.Server.DataDir, 0755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{"error": err.Error()})
	}

	badgerOpts := badger.DefaultOptions(cfg.Server.DataDir)
	badgerOpts.Logger = nil // Disable Badger's default logger
	badgerOpts.SyncWrites = cfg.Server.SyncWrites

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{"error": err.Error()})
	}

	txRepo, err := db.NewBadgerTransactionRepository(badgerDB)
	if err != nil {
		badgerDB.Close()
		log.Fatal("Failed to initialize repository", map[string]interface{}{"error": err.Error()})
	}

	defer func() {
		if err := txRepo.Close(); err != nil {
			log.Error("Error releasing id sequence", map[string]interface{}{"error": err.Error()})
		}
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	txService := service.NewTransactionService(txRepo, log.WithField("component", "service"))
	txHandler := handler.NewTransactionHandler(txService, log.WithField("component", "handler"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(metrics.Middleware)
	txHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           middleware.CORS(cfg.Server.CORSOrigins)(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", map[string]interface{}{"error": err.Error()})
		}
		return
	case <-ctx.Done():
	}

	log.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
