package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/routes"
)

func init() {
	if err := initializers.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	initializers.InitLogger()
	if initializers.Config.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	if err := initializers.ConnectToDB(); err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	if err := initializers.SyncDatabase(initializers.DB); err != nil {
		log.Fatal().Err(err).Msg("database sync")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initializers.InitUploader(ctx); err != nil {
		log.Fatal().Err(err).Msg("image uploader")
	}

	if initializers.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + initializers.Config.Port,
		Handler:           routes.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", initializers.Config.Port).Str("env", initializers.Config.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if sqlDB, err := initializers.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
