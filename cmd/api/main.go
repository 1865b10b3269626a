package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopworks/auth-system/internal/api"
	"github.com/shopworks/auth-system/internal/core/service"
	"github.com/shopworks/auth-system/internal/core/token"
	"github.com/shopworks/auth-system/internal/infrastructure/config"
	mongoinfra "github.com/shopworks/auth-system/internal/infrastructure/db/mongo"
	redisinfra "github.com/shopworks/auth-system/internal/infrastructure/db/redis"
	"github.com/shopworks/auth-system/internal/infrastructure/email"
	"github.com/shopworks/auth-system/internal/infrastructure/queue"
	"github.com/shopworks/auth-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// A missing signing secret is fatal: refuse to start rather than issue
	// unverifiable tokens.
	signer, err := token.NewSigner(token.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.Expiry(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token signer configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongoinfra.Connect(ctx, mongoinfra.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	store := mongoinfra.NewCredentialStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection")
	}
	defer func() { _ = rdb.Close() }()

	refreshStore := redisinfra.NewRefreshTokenStore(rdb)

	sender := email.NewSender(cfg.Env, cfg.Email.APIKey, cfg.Email.From, log)
	dispatcher := queue.NewDispatcher(cfg.Email.Workers, sender, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(store, refreshStore, signer, cfg.JWT.DefaultRole, cfg.JWT.RefreshTTL(), log)

	// Seed before accepting traffic; a failed seed aborts startup.
	if cfg.Seed.Enabled {
		seeder := service.NewSeeder(store, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, log)
		if err := seeder.Seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("bootstrap seeding")
		}
	}

	e := api.NewRouter(db, rdb, authService, signer, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
