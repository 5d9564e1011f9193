// cmd/orchestrator/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"design-orchestrator/internal/api"
	"design-orchestrator/internal/common/config"
	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/common/observability"
	"design-orchestrator/internal/common/validation"
	"design-orchestrator/internal/generator"
	"design-orchestrator/internal/health"
	"design-orchestrator/internal/pipeline"
	"design-orchestrator/internal/remote/compliance"
	"design-orchestrator/internal/remote/optimization"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting design orchestrator...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	tracerProvider, err := observability.InitTracer(cfg.App.Name, cfg.Telemetry.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracer init failed", zap.Error(err))
	}
	defer observability.ShutdownTracer(tracerProvider)

	ctx := context.Background()

	// --- Init Redis (compliance cache) with retry ---
	var complianceCache *compliance.Cache
	if cfg.Compliance.CacheEnabled {
		var rdb *goredis.Client
		err = retryWithBackoff(func() error {
			rdb = goredis.NewClient(&goredis.Options{
				Addr:     cfg.Redis.Address,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			return rdb.Ping(ctx).Err()
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		complianceCache = compliance.NewCache(rdb, cfg.Compliance.CacheTTLDuration(), log)
	}

	validator, err := validation.New()
	if err != nil {
		zapLog.Fatal("response schema compilation failed", zap.Error(err))
	}

	tracker := health.New(cfg.Health.WindowDuration())

	// --- Init Collaborator Clients ---
	gen := generator.NewHTTPGenerator(&generator.Config{
		BaseURL: cfg.Generator.BaseURL,
		Timeout: cfg.Generator.TimeoutDuration(),
	}, log)

	complianceClient := compliance.NewClient(&compliance.Config{
		BaseURL:              cfg.Compliance.BaseURL,
		Timeout:              cfg.Compliance.TimeoutDuration(),
		FallbackReferenceURL: cfg.Compliance.FallbackReferenceURL,
		CacheEnabled:         cfg.Compliance.CacheEnabled,
		CacheTTL:             cfg.Compliance.CacheTTLDuration(),
	}, tracker, validator, complianceCache, log)

	optimizationClient := optimization.NewClient(&optimization.Config{
		BaseURL:            cfg.Optimization.BaseURL,
		Timeout:            cfg.Optimization.TimeoutDuration(),
		SynthesizeFallback: cfg.Optimization.SynthesizeFallback,
	}, tracker, validator, log)

	zapLog.Info("All collaborator clients initialized")

	coordinator := pipeline.NewCoordinator(gen, complianceClient, optimizationClient, log)
	server := api.NewServer(coordinator, tracker, log)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Routes(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
