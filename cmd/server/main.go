// Command server runs the D&D character API.
//
// @title                       D&D Character API
// @version                     1.0
// @description                 Owner-scoped character sheets with share links.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dndvault/character-api/docs"
	"github.com/dndvault/character-api/internal/api"
	"github.com/dndvault/character-api/internal/api/handler"
	"github.com/dndvault/character-api/internal/api/metrics"
	"github.com/dndvault/character-api/internal/core/recovery"
	"github.com/dndvault/character-api/internal/core/service"
	mongodb "github.com/dndvault/character-api/internal/infrastructure/db/mongo"
	redisdb "github.com/dndvault/character-api/internal/infrastructure/db/redis"
	"github.com/dndvault/character-api/internal/pkg/config"
	"github.com/dndvault/character-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to a bare one.
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "character-api",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	characterRepo := mongodb.NewCharacterRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	if err := characterRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure character indexes")
	}

	breaker := recovery.NewBreaker(cfg.Recovery.BreakerThreshold, cfg.Recovery.BreakerCooldown)
	executor := recovery.NewExecutor(recovery.Options{
		MaxRetries: cfg.Recovery.MaxRetries,
		BaseDelay:  cfg.Recovery.BaseDelay,
		MaxDelay:   cfg.Recovery.MaxDelay,
	}, breaker, metrics.RecoveryObserver{}, logger.Component("recovery"))

	authService := service.NewAuthService(userRepo, redisdb.NewRevokedTokenStore(rdb), cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	characterService := service.NewCharacterService(characterRepo, executor, cfg.ShareTokenTTL, logger.Component("characters"))

	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Characters: characterService,
		Breaker:    executor.Breaker(),
		Checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Log: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
