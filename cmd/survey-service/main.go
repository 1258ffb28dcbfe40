package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/meridian-vc/survey-platform/pkg/abuse"
	"github.com/meridian-vc/survey-platform/pkg/aggregate"
	"github.com/meridian-vc/survey-platform/pkg/common/config"
	"github.com/meridian-vc/survey-platform/pkg/common/database"
	"github.com/meridian-vc/survey-platform/pkg/common/kafka"
	"github.com/meridian-vc/survey-platform/pkg/common/logger"
	"github.com/meridian-vc/survey-platform/pkg/company"
	"github.com/meridian-vc/survey-platform/pkg/compliance"
	"github.com/meridian-vc/survey-platform/pkg/encryption"
	"github.com/meridian-vc/survey-platform/pkg/middleware"
	"github.com/meridian-vc/survey-platform/pkg/observability/metrics"
	"github.com/meridian-vc/survey-platform/pkg/report"
	"github.com/meridian-vc/survey-platform/pkg/submission"
	"github.com/meridian-vc/survey-platform/pkg/survey"
)

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	companyRepo := company.NewRepository(db)
	aggregateRepo := aggregate.NewRepository(db)
	responseRepo := compliance.NewRepository(db)
	runRepo := report.NewRepository(db)
	if err := companyRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate companies")
	}
	if err := aggregateRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate aggregated responses")
	}
	if err := responseRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate individual responses")
	}
	if err := runRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate export runs")
	}

	encryptor, err := buildEncryptor(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialise encryption")
	}

	catalog, err := survey.LoadCatalog(cfg.AxesConfigPath)
	if err != nil {
		if len(catalog.Axes) == 0 {
			logger.Log.WithError(err).Fatal("failed to load axis catalog")
		}
		logger.Log.WithError(err).Warn("axis catalog override unreadable, using built-in catalog")
	}

	limiter := abuse.NewLimiter(database.GetRedis(), cfg.SubmitMaxPerWindow, cfg.SubmitWindow)

	producer := kafka.NewProducer(cfg.SurveyEventsTopic)
	defer producer.Close()

	companyService := company.NewService(db, companyRepo, aggregateRepo, responseRepo)
	submitService := submission.NewService(db, catalog, companyRepo, aggregateRepo, responseRepo, encryptor, limiter, producer)
	reportService := report.NewService(companyRepo, aggregateRepo, runRepo)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	submission.NewHTTPHandler(submitService, companyRepo, cfg.MaxRequestBody).Register(api)
	company.NewHTTPHandler(companyService, cfg.MaxRequestBody).Register(api)
	report.NewHTTPHandler(reportService).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Survey Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Survey Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Survey Service stopped")
}

// buildEncryptor loads the Tier-2 key from configuration. When no key is
// configured a single-run key is generated so local development works, with
// the obvious caveat that those payloads cannot be opened after restart.
func buildEncryptor(cfg *config.Config) (*encryption.Encryptor, error) {
	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}
	if key == nil {
		key = make([]byte, encryption.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		logger.Log.Warn("ENCRYPTION_KEY not set; generated an ephemeral key, sealed responses will not survive a restart")
	}
	return encryption.NewEncryptor(key)
}
