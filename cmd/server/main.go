package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitclub/planner/internal/api"
	"fitclub/planner/internal/config"
	"fitclub/planner/internal/logging"
	"fitclub/planner/internal/repository/backend"
	"fitclub/planner/internal/service"
	"fitclub/planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// @title Fitness Planner API
// @version 1.0
// @description Trainer-side persistence for weekly workout and nutrition plans.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().Str("driver", cfg.Database.Driver).Str("address", cfg.Server.Address).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	store, err := backend.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open repository backend")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close repository backend")
		}
	}()

	if store.EnsureIndexes != nil {
		go func() {
			idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if err := store.EnsureIndexes(idxCtx); err != nil {
				log.Warn().Err(err).Msg("index creation failed")
				return
			}
			log.Info().Msg("indexes ensured")
		}()
	}

	// --- Storage ---
	archive, err := storage.NewPlanArchive(ctx, cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize plan archive")
	}

	// --- Services ---
	authService := service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	trainerService := service.NewTrainerService(store.Users)
	planService := service.NewPlanService(trainerService, store.Workouts, store.Nutrition, archive)
	catalogService := service.NewCatalogService(store.Catalog)

	if cfg.Catalog.SeedFile != "" {
		if err := catalogService.SeedFile(ctx, cfg.Catalog.SeedFile); err != nil {
			log.Fatal().Err(err).Msg("failed to seed catalog")
		}
	}

	// --- HTTP ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(cfg.Server.BasePath, api.Services{
		Auth:    authService,
		Trainer: trainerService,
		Plan:    planService,
		Catalog: catalogService,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Str("basePath", cfg.Server.BasePath).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("listen failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server exiting")
}
