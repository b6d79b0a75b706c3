package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"devfolio/internal/config"
	apphttp "devfolio/internal/http"
	"devfolio/internal/janitor"
	"devfolio/internal/mail"
	"devfolio/internal/ratelimit"
	"devfolio/internal/repository"
	"devfolio/internal/repository/postgres"
	"devfolio/internal/repository/sqlite"
	"devfolio/internal/service"
	"devfolio/internal/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		logger.Fatalf("init schema: %v", err)
	}

	files, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	uploads := service.NewUploadService(files, cfg.Upload.MaxBytes, cfg.Upload.PublicPrefix)
	deps := apphttp.Deps{
		DevLogs:      service.NewDevLogService(store.DevLogs),
		Games:        service.NewGameService(store.Games, uploads, logger),
		Projects:     service.NewProjectService(store.Projects),
		Uploads:      uploads,
		Contact:      service.NewContactService(buildNotifier(cfg, logger)),
		Files:        files,
		PublicPrefix: cfg.Upload.PublicPrefix,
		Ping:         store.Ping,
		Limiter:      buildLimiter(ctx, cfg, logger),
		ServiceName:  "devfolio",
		Version:      version,
		Logger:       logger,
	}

	if cfg.Auth.JWTSecret != "" {
		users := service.NewUserService(store.Users, cfg.Auth.JWTSecret, cfg.TokenTTL())
		if cfg.Auth.AdminUsername != "" {
			if _, err := users.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
				logger.Fatalf("ensure admin user: %v", err)
			}
		}
		deps.Users = users
	} else {
		logger.Warn("auth.jwtsecret is not set, write routes are open")
	}

	sweeper := janitor.New(janitor.Config{
		Schedule:     cfg.Janitor.Schedule,
		Grace:        cfg.Janitor.Grace,
		PublicPrefix: cfg.Upload.PublicPrefix,
	}, store, files, logger)
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatalf("start janitor: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := apphttp.NewRouter(apphttp.NewHandler(deps), apphttp.RouterOptions{
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	sweeper.Stop()

	logger.Info("bye")
}

func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	if cfg.Database.Driver == "postgres" {
		pool, err := postgres.Open(ctx, postgres.Options{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return repository.Store{}, err
		}
		return postgres.NewStore(pool), nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return repository.Store{}, err
	}
	return sqlite.NewStore(db), nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Store, error) {
	if cfg.Storage.Backend != "s3" {
		logger.Infof("storing uploads in %s", cfg.Upload.Dir)
		return storage.NewDiskStore(cfg.Upload.Dir)
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Store(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
}

func buildNotifier(cfg config.Config, logger *logrus.Logger) service.Notifier {
	if cfg.Mail.SendGridKey == "" {
		logger.Warn("mail.sendgridkey is not set, contact messages are only logged")
		return mail.NewLogNotifier(logger)
	}
	return mail.NewSendGridNotifier(cfg.Mail.SendGridKey, cfg.Mail.From, cfg.Mail.To)
}

func buildLimiter(ctx context.Context, cfg config.Config, logger *logrus.Logger) ratelimit.Limiter {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			logger.Infof("rate limiting through redis at %s", cfg.Redis.Addr)
			return ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
		logger.Warnf("redis unavailable, falling back to in-memory rate limiting: %v", err)
		_ = client.Close()
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
}
