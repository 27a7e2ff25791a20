// cmd/registry-server/main.go
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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"activity-registry/internal/api"
	awsclient "activity-registry/internal/common/aws"
	"activity-registry/internal/common/config"
	"activity-registry/internal/common/database"
	apperrors "activity-registry/internal/common/errors"
	"activity-registry/internal/common/logger"
	"activity-registry/internal/common/observability"
	"activity-registry/internal/enrollment"
	"activity-registry/internal/events"
	"activity-registry/internal/notify"
	"activity-registry/internal/registry"
	"activity-registry/pkg/catalog"
	"activity-registry/web"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting activity registry...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.App.Name, nil)
	defer obs.Shutdown()
	if cfg.Tracing.Enabled {
		if err := obs.EnableJaeger(cfg.Tracing.JaegerEndpoint); err != nil {
			zapLog.Fatal("jaeger exporter failed", zap.Error(err))
		}
		zapLog.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.JaegerEndpoint))
	}

	// --- Seed registry ---
	reg, err := loadRegistry(cfg.Catalog)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("Registry seeded", zap.Int("activities", len(reg.Names())))

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	if cfg.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.ConnectRedis(ctx, cfg.Redis)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Event sinks ---
	var sinks []events.Publisher
	if cfg.Events.Redis.Enabled {
		sinks = append(sinks, events.NewRedisPublisher(redis, cfg.Events.Redis.Channel))
	}
	if cfg.Events.SNS.Enabled {
		snsClient, err := awsclient.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		sinks = append(sinks, events.NewSNSPublisher(snsClient, cfg.Events.SNS.TopicARN))
	}

	opts := []enrollment.Option{
		enrollment.WithObservability(obs),
		enrollment.WithPublisher(events.NewMulti(log, sinks...)),
	}

	if cfg.Notifications.Email.Enabled {
		sesClient, err := awsclient.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		opts = append(opts, enrollment.WithNotifier(notify.NewSESNotifier(sesClient, cfg.Notifications.Email.FromEmail)))
	}

	zapLog.Info("Event sinks configured",
		zap.Int("sinks", len(sinks)),
		zap.Bool("emailNotifications", cfg.Notifications.Email.Enabled),
	)

	svc := enrollment.NewService(
		&enrollment.Config{PublishTimeout: config.GetDuration(cfg.Events.PublishTimeout)},
		reg, log, opts...,
	)

	// --- HTTP server ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var pinger api.Pinger
	if redis != nil {
		pinger = redis
	}

	router := api.SetupRoutes(&api.RouterConfig{
		ActivityHandler: api.NewActivityHandler(svc, apperrors.NewErrorHandler(log)),
		HealthHandler:   api.NewHealthHandler(pinger),
		Logger:          log,
		Static:          web.Static(),
		IndexPath:       cfg.Server.IndexPath,
		CORSOrigins:     cfg.Server.CORSOrigins,
	})
	server := api.NewServer(cfg.Server, router)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Activity registry stopped gracefully")
}

func loadRegistry(cfg config.CatalogConfig) (*registry.Registry, error) {
	if cfg.Path == "" {
		return registry.NewDefault()
	}
	cat, err := catalog.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.Path, err)
	}
	return registry.New(cat)
}
