package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/meridian-vc/survey-platform/pkg/common/config"
	"github.com/meridian-vc/survey-platform/pkg/common/database"
	"github.com/meridian-vc/survey-platform/pkg/common/kafka"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/middleware"
	"github.com/meridian-vc/survey-platform/pkg/snapshot"
	"github.com/redis/go-redis/v9"
)

// dashboard-cache consumes counts.updated events and keeps the latest
// non-identifying aggregate snapshot per company hot in Redis.
func main() {
	logger.Init()
	cfg := config.Load()

	materializer := snapshot.NewMaterializer(database.GetRedis(), cfg.SnapshotTTL)

	consumer := kafka.NewConsumer(cfg.SurveyEventsTopic, "dashboard-cache")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Consume(ctx, materializer.Handle); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Fatal("consumer error")
		}
	}()

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/snapshots/{company_id}", func(w http.ResponseWriter, r *http.Request) {
		snap, err := materializer.Get(r.Context(), mux.Vars(r)["company_id"])
		if err != nil {
			if errors.Is(err, redis.Nil) {
				http.Error(w, "no snapshot", http.StatusNotFound)
				return
			}
			logger.Log.WithError(err).Error("failed to read snapshot")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, "8091"),
		Handler: router,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": "8091",
		}).Info("Dashboard Cache started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Dashboard Cache...")
	cancel()

	if err := server.Close(); err != nil {
		logger.Log.WithError(err).Error("server close failed")
	}

	logger.Log.Info("Dashboard Cache stopped")
}
