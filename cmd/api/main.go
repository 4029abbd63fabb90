// @title                       Classroom Auth API
// @version                     1.0
// @description                 Registration, login and role-based access for the classroom platform.
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

	"github.com/campusdesk/classroom-auth/internal/api"
	"github.com/campusdesk/classroom-auth/internal/api/handler"
	"github.com/campusdesk/classroom-auth/internal/core/service"
	mongostore "github.com/campusdesk/classroom-auth/internal/infrastructure/db/mongo"
	rediscache "github.com/campusdesk/classroom-auth/internal/infrastructure/db/redis"
	"github.com/campusdesk/classroom-auth/internal/pkg/config"
	"github.com/campusdesk/classroom-auth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; emit one line and bail out.
		boot := logger.Init(logger.Options{Service: "classroom-auth"})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "classroom-auth",
	})

	codec, err := service.NewJWTCodec([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token codec")
	}
	hasher := service.NewBcryptHasher(cfg.BcryptCost)

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "classroom-auth",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	users := mongostore.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	rdb, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	repo := rediscache.NewIdentityCache(users, rdb, cfg.Redis.IdentityCacheTTL, logger.Component("identity_cache"))
	authService := service.NewAuthService(repo, hasher, codec, logger.Component("auth_service"))

	extractor := service.NewCredentialExtractor(codec)
	if cfg.StrictBearer {
		extractor = service.NewStrictCredentialExtractor(codec)
	}

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Authorizer:  extractor,
		Log:         logger.Component("http"),
		Checks: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int("bcrypt_cost", hasher.Cost()).
			Bool("strict_bearer", cfg.StrictBearer).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
