package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aescanero/dago-node-render/internal/config"
	"github.com/aescanero/dago-node-render/internal/eval/cel"
	"github.com/aescanero/dago-node-render/internal/eval/template"
	"github.com/aescanero/dago-node-render/internal/render"
	"github.com/aescanero/dago-node-render/internal/worker"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting render worker",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)

	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("render worker failed", zap.Error(err))
	}
	logger.Info("worker stopped gracefully")
}

// run starts the worker and its health server and blocks until SIGINT or
// SIGTERM
func run(cfg *config.Config, logger *zap.Logger) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	engine, err := initEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize template engine: %w", err)
	}
	logger.Info("template engine initialized",
		zap.String("template_root", cfg.TemplateRoot),
		zap.Bool("cel_enabled", cfg.CELEnabled),
	)

	w := worker.NewWorker(cfg, redisClient, engine, logger)
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	healthServer := worker.NewHealthServer(cfg.HealthPort, redisClient, engine, logger)
	if err := healthServer.Start(); err != nil {
		_ = w.Stop()
		return fmt.Errorf("failed to start health server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("render worker running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")

	if err := healthServer.Stop(); err != nil {
		logger.Error("failed to stop health server", zap.Error(err))
	}
	return w.Stop()
}

// initLogger builds the JSON production logger at level, falling back to info
func initLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

// initEngine builds the shared Handlebars engine, with the CEL "when" helper
// when enabled
func initEngine(cfg *config.Config) (render.Engine, error) {
	options := []template.Option{template.WithBaseDir(cfg.TemplateRoot)}

	if cfg.CELEnabled {
		evaluator, err := cel.NewEvaluator()
		if err != nil {
			return nil, fmt.Errorf("failed to create CEL evaluator: %w", err)
		}
		options = append(options, template.WithCEL(evaluator))
	}

	return render.NewHandlebarsEngine(template.NewEngine(options...)), nil
}
