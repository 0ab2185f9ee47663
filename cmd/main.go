package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/dtroode/promptgallery-server/internal/api/http/context"
	"github.com/dtroode/promptgallery-server/internal/api/http/handler"
	"github.com/dtroode/promptgallery-server/internal/api/http/router"
	httpServer "github.com/dtroode/promptgallery-server/internal/api/http/server"
	rediscache "github.com/dtroode/promptgallery-server/internal/cache/redis"
	"github.com/dtroode/promptgallery-server/internal/config"
	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
	"github.com/dtroode/promptgallery-server/internal/password"
	"github.com/dtroode/promptgallery-server/internal/repository/memory"
	"github.com/dtroode/promptgallery-server/internal/repository/postgres"
	"github.com/dtroode/promptgallery-server/internal/server"
	"github.com/dtroode/promptgallery-server/internal/service"
	"github.com/dtroode/promptgallery-server/internal/storage/local"
	minioStorage "github.com/dtroode/promptgallery-server/internal/storage/minio"
	s3Storage "github.com/dtroode/promptgallery-server/internal/storage/s3"
	"github.com/dtroode/promptgallery-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

// stores bundles the persistence backends selected by DATABASE_DRIVER.
type stores struct {
	users      model.UserStore
	categories model.CategoryStore
	prompts    model.PromptStore
	pinger     handler.Pinger
	close      func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", "driver", cfg.Database.Driver, "error", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	artifactStorage, err := openArtifactStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize artifact storage", "backend", cfg.Storage.Backend, "error", err)
	}

	categoryCache, closeCache, err := openCategoryCache(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
	}
	defer closeCache()

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)
	artifacts := service.NewArtifacts(artifactStorage, cfg.Storage.PublicPrefix, logger)
	categories := service.NewCategories(st.categories, categoryCache, logger)
	authService := service.NewAuth(st.users, categories, tokenService, password.NewBcrypt(cfg.Password.BcryptCost), artifacts, logger)
	contentService := service.NewContent(st.prompts, st.users, categories, tokenService, artifacts, logger)

	r := router.New(
		authService,
		categories,
		contentService,
		artifacts,
		st.pinger,
		httpctx.NewManager(),
		router.Options{
			BodyLimit:      cfg.HTTP.BodyLimitMB << 20,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		},
		logger,
	)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.Database.Driver {
	case "memory":
		return stores{
			users:      memory.NewUserRepository(),
			categories: memory.NewCategoryRepository(),
			prompts:    memory.NewPromptRepository(),
			pinger:     handler.PingerFunc(func(context.Context) error { return nil }),
			close:      func() error { return nil },
		}, nil
	case "postgres":
		db, err := postgres.NewConection(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:      postgres.NewUserRepository(db),
			categories: postgres.NewCategoryRepository(db),
			prompts:    postgres.NewPromptRepository(db),
			pinger:     db,
			close:      db.Close,
		}, nil
	default:
		return stores{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func openArtifactStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return minioStorage.Connect(ctx, minioStorage.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
	case "s3":
		return s3Storage.NewClient(ctx, s3Storage.Options{
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			BaseEndpoint: cfg.S3.BaseEndpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
		})
	case "local":
		return local.NewStorage(cfg.Storage.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openCategoryCache returns a nil cache when REDIS_ADDR is empty.
func openCategoryCache(ctx context.Context, cfg *config.Config) (model.CategoryCache, func(), error) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}, nil
	}

	cache, client, err := rediscache.Connect(ctx, rediscache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.CategoryTTL,
	})
	if err != nil {
		return nil, func() {}, err
	}
	return cache, func() { _ = client.Close() }, nil
}
