package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tair/allergy-scan/config"
	_ "github.com/tair/allergy-scan/docs"
	"github.com/tair/allergy-scan/internal/app"
	"github.com/tair/allergy-scan/pkg/auth"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/tracing"
)

func main() {
	// allergyscan hash-passphrase <passphrase> prints a value for AUTH_PASSPHRASE_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-passphrase" {
		hash, err := auth.HashPassphrase(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("state_backend", cfg.StateBackend).
		Msg("Starting allergyscan service")

	// Initialize tracer
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: cfg.ServiceVersion,
			JaegerEndpoint: cfg.JaegerEndpoint,
			SampleRatio:    cfg.TraceSampleRate,
		})
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracing.Shutdown(ctx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	infra, err := app.NewInfrastructure(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect infrastructure")
	}

	// Initialize the service with Wire DI
	service, err := app.InitializeApp(cfg, infra)
	if err != nil {
		infra.Close()
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize service")
	}

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := service.Run(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Service stopped with error")
	}
}
