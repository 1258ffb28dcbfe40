package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/meridian-vc/survey-platform/pkg/common/config"
	"github.com/meridian-vc/survey-platform/pkg/common/database"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/company"
	"github.com/meridian-vc/survey-platform/pkg/compliance"
	"github.com/meridian-vc/survey-platform/pkg/encryption"
	"github.com/meridian-vc/survey-platform/pkg/middleware"
)

// The compliance service is the only binary that ever decrypts Tier-2
// payloads. It runs separately from the survey service so the decrypt path
// can be firewalled and scoped to regulatory requests.
func main() {
	logger.Init()
	cfg := config.Load()

	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid ENCRYPTION_KEY")
	}
	if key == nil {
		logger.Log.Fatal("ENCRYPTION_KEY is required for the compliance service")
	}
	encryptor, err := encryption.NewEncryptor(key)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialise encryption")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	companyRepo := company.NewRepository(db)
	responseRepo := compliance.NewRepository(db)

	service := compliance.NewService(companyRepo, responseRepo, encryptor)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	compliance.NewHTTPHandler(service).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, "8090"),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": "8090",
		}).Info("Compliance Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Compliance Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Compliance Service stopped")
}
