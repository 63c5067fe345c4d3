// Command server runs the hotel review sentiment API.
//
// It loads configuration from the environment (and an optional .env file),
// opens the SQLite database, constructs the configured sentiment predictor,
// and serves the HTTP API until SIGINT/SIGTERM, then shuts down gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stayview/go-review-backend/internal/config"
	httpapi "github.com/stayview/go-review-backend/internal/http"
	"github.com/stayview/go-review-backend/internal/nlp"
	"github.com/stayview/go-review-backend/internal/observability"
	"github.com/stayview/go-review-backend/internal/predict"
	"github.com/stayview/go-review-backend/internal/repo"
	"github.com/stayview/go-review-backend/internal/sysutil"
)

var version = "dev" // overridden at build time via -ldflags

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	predictor, err := predict.New(predict.Options{
		Backend:        cfg.Predictor.Backend,
		VectorizerPath: cfg.Predictor.VectorizerPath,
		ClassifierPath: cfg.Predictor.ClassifierPath,
		URL:            cfg.Predictor.RemoteURL,
		Timeout:        cfg.Predictor.RemoteTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Predictor.Backend).Msg("predictor setup failed")
	}

	norm, err := nlp.New()
	if err != nil {
		log.Fatal().Err(err).Msg("normalizer setup failed")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, predictor, norm, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Predictor.Backend).
			Str("version", version).
			Msg("review api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
