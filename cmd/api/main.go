// Package main boots the booking auth API: configuration, logging, MongoDB
// and Redis connections, role seeding, the audit dispatcher, and the HTTP
// server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookinghub/booking-system/internal/api"
	"github.com/bookinghub/booking-system/internal/core/domain"
	"github.com/bookinghub/booking-system/internal/infrastructure/db/mongo"
	"github.com/bookinghub/booking-system/internal/infrastructure/db/redis"
	"github.com/bookinghub/booking-system/internal/infrastructure/queue"
	"github.com/bookinghub/booking-system/internal/pkg/config"
	"github.com/bookinghub/booking-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Booking System Auth API
// @version         1.0
// @description     Registration, login and bearer-token issuance for the booking platform.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	store := mongo.NewCredentialStore(db)
	if err := store.EnsureRoles(ctx, domain.DefaultRoles); err != nil {
		log.Fatal().Err(err).Msg("role seeding failed")
	}

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Audit dispatcher ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongo.NewAuthEventRepository(db), log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e, err := api.NewRouter(db, rdb, cfg, dispatcher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting auth API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
