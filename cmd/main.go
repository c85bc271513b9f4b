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

	"github.com/joho/godotenv"

	httpctx "github.com/dtroode/vidtube-server/internal/api/http/context"
	"github.com/dtroode/vidtube-server/internal/api/http/handler"
	"github.com/dtroode/vidtube-server/internal/api/http/router"
	httpServer "github.com/dtroode/vidtube-server/internal/api/http/server"
	"github.com/dtroode/vidtube-server/internal/config"
	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
	"github.com/dtroode/vidtube-server/internal/password"
	"github.com/dtroode/vidtube-server/internal/repository/cache"
	"github.com/dtroode/vidtube-server/internal/repository/postgres"
	"github.com/dtroode/vidtube-server/internal/server"
	"github.com/dtroode/vidtube-server/internal/service"
	"github.com/dtroode/vidtube-server/internal/storage"
	minioStorage "github.com/dtroode/vidtube-server/internal/storage/minio"
	s3Storage "github.com/dtroode/vidtube-server/internal/storage/s3"
	"github.com/dtroode/vidtube-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

type blobBackend interface {
	model.BlobBackend
	handler.Pinger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	blobs, err := newBlobBackend(ctx, cfg.Blob)
	if err != nil {
		logger.Fatal("failed to initialize blob storage", "driver", cfg.Blob.Driver, "error", err)
	}
	uploader := storage.NewUploader(blobs, cfg.Blob.BaseURL())

	// Refresh token rotation must always compare against the stored value,
	// so the token service reads through the uncached repository.
	userRepo := postgres.NewUserRepository(db)
	var users model.UserStore = userRepo
	if cfg.Cache.Size > 0 {
		users = cache.NewUserStore(userRepo, cfg.Cache.Size, cfg.Cache.TTL)
	}
	channelRepo := postgres.NewChannelRepository(db)

	tokenManager := token.NewJWT(
		token.Key{Secret: cfg.Access.Secret, TTL: cfg.Access.Expiry},
		token.Key{Secret: cfg.Refresh.Secret, TTL: cfg.Refresh.Expiry},
	)
	credentials := service.NewCredentials(users, password.NewBcrypt(cfg.Bcrypt.Cost))
	tokenService := service.NewTokenService(tokenManager, userRepo, logger)

	authService := service.NewAuth(users, credentials, tokenService, uploader, logger)
	accountService := service.NewAccount(users, uploader, logger)
	channelService := service.NewChannel(channelRepo, logger)

	r := router.New(
		authService,
		accountService,
		channelService,
		httpctx.NewManager(),
		router.Options{
			Handler: handler.Options{
				MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
				UploadTempDir:  cfg.HTTP.UploadTempDir,
				CookieSecure:   cfg.HTTP.CookieSecure,
			},
			CORSOrigin: cfg.HTTP.CORSOrigin,
		},
		logger,
		handler.HealthCheck{Name: "database", Pinger: db},
		handler.HealthCheck{Name: "blob", Pinger: blobs},
	)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP)

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

func newBlobBackend(ctx context.Context, cfg config.Blob) (blobBackend, error) {
	switch cfg.Driver {
	case config.BlobDriverS3:
		return s3Storage.NewClient(ctx, s3Storage.Options{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		})
	default:
		return minioStorage.NewClient(ctx, minioStorage.Options{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		})
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
