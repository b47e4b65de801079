// cmd/dashboard/main.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"society-dashboard/internal/common/config"
	"society-dashboard/internal/common/database"
	commonhttp "society-dashboard/internal/common/http"
	"society-dashboard/internal/common/logger"
	"society-dashboard/internal/common/observability"
	"society-dashboard/internal/membercache"
	"society-dashboard/internal/server"
	"society-dashboard/internal/societyapi"
	"society-dashboard/internal/wizard"
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
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting dashboard service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("dashboard")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init society API client ---
	apiClient := societyapi.NewClient(
		cfg.SocietyAPI.BaseURL,
		cfg.SocietyAPI.APIKey,
		config.GetDuration(cfg.SocietyAPI.Timeout),
		societyapi.WithHTTPClient(commonhttp.NewInstrumented(config.GetDuration(cfg.SocietyAPI.Timeout))),
	)
	zapLog.Info("Society API client initialized", zap.String("baseURL", cfg.SocietyAPI.BaseURL))

	// --- Init Redis cache with retry ---
	var cache *membercache.Cache
	if cfg.Cache.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		cache = membercache.New(
			redis, log,
			config.GetDuration(cfg.Cache.MemberTTL),
			config.GetDuration(cfg.Cache.MemberListTTL),
		)
	} else {
		zapLog.Info("Member cache disabled, serving straight from the upstream")
	}

	// --- Wizard sessions ---
	sessions := wizard.NewManager(config.GetDuration(cfg.Wizard.SessionTTL))
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if dropped := sessions.Reap(); dropped > 0 {
					log.Info("reaped idle wizard sessions", map[string]interface{}{"count": dropped})
				}
			}
		}
	}()

	handlers := server.New(apiClient, apiClient, cache, sessions, log, cfg.Export.PDFTitle)
	srv := server.NewServer(cfg.Server, handlers)

	zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
	if err := srv.Run(ctx); err != nil {
		zapLog.Fatal("server stopped with error", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
