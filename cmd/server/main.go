package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/api"
	"github.com/blogdesk/admin-api/internal/api/handler"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
	"github.com/blogdesk/admin-api/internal/core/service"
	"github.com/blogdesk/admin-api/internal/infrastructure/config"
	"github.com/blogdesk/admin-api/internal/infrastructure/db/gormdb"
	"github.com/blogdesk/admin-api/internal/infrastructure/db/mongo"
	"github.com/blogdesk/admin-api/internal/infrastructure/db/redis"
	"github.com/blogdesk/admin-api/internal/infrastructure/http/handlers"
	"github.com/blogdesk/admin-api/internal/infrastructure/storage"
	"github.com/blogdesk/admin-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(ctx, zerolog.New(os.Stderr).With().Timestamp().Logger())
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel))

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores bundles the record repositories with their readiness probe and cleanup.
type stores struct {
	posts ports.PostRepository
	users ports.UserRepository
	check handlers.Check
	close func()
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := openStores(ctx, cfg, logger.Component("store"))
	if err != nil {
		return err
	}
	defer db.close()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	sessions := redis.NewSessionStore(rdb, cfg.Redis.SessionTTL)

	permanent, media, err := openMedia(ctx, cfg)
	if err != nil {
		return err
	}
	temp, err := storage.NewTempStore(cfg.Storage.TempDir, permanent, logger.Component("storage"))
	if err != nil {
		return err
	}

	hasher := service.NewBcryptHasher(0)
	e := api.NewRouter(api.Dependencies{
		Posts:     service.NewPostService(db.posts, db.users, cfg.PageSize, logger.Component("posts")),
		Users:     service.NewUserService(db.users, hasher, cfg.PageSize, logger.Component("users")),
		Auth:      service.NewAuthService(db.users, hasher, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		Sessions:  sessions,
		Confirmer: service.NewConfirmer(temp, logger.Component("confirm")),
		Validator: forms.NewValidator(),
		Media:     media,
		Checks: []handlers.Check{
			db.check,
			{Name: "redis", Ping: func(ctx context.Context) error { return redis.Ping(ctx, rdb, 0) }},
		},
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		MaxUploadMB:   cfg.Storage.MaxUploadMB,
		SecureCookies: !cfg.IsDevelopment(),
		Logger:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Str("storage", cfg.Storage.Backend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Store.Driver == "mongo" {
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		posts := mongo.NewPostRepository(database)
		users := mongo.NewUserRepository(database)
		if err := posts.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
		return &stores{
			posts: posts,
			users: users,
			check: handlers.Check{Name: "mongo", Ping: users.Ping},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}

	db, err := gormdb.Open(gormdb.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN, SQLitePath: cfg.Store.SQLitePath})
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("database connected")
	return &stores{
		posts: gormdb.NewPostRepository(db),
		users: gormdb.NewUserRepository(db),
		check: handlers.Check{Name: cfg.Store.Driver, Ping: func(ctx context.Context) error { return gormdb.Ping(ctx, db) }},
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

// openMedia returns where promoted uploads are kept and how /media serves them.
func openMedia(ctx context.Context, cfg *config.Config) (ports.FileStorage, *handler.MediaHandler, error) {
	if cfg.Storage.Backend == "s3" {
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("s3 storage: %w", err)
		}
		return s3, handler.NewRemoteMediaHandler(s3), nil
	}

	local, err := storage.NewLocalStorage(cfg.Storage.MediaDir)
	if err != nil {
		return nil, nil, fmt.Errorf("local storage: %w", err)
	}
	return local, handler.NewLocalMediaHandler(local.Dir()), nil
}
