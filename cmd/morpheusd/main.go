package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"morpheus/cache"
	"morpheus/config"
	"morpheus/native/builders"
	"morpheus/observability/logging"
	"morpheus/observability/metrics"
	"morpheus/observability/otel"
	"morpheus/rpc"
	"morpheus/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("MORPHEUS_ENV"))

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup("morpheusd", env, logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	shutdownTelemetry := func(context.Context) error { return nil }
	if cfg.Telemetry.Endpoint != "" {
		shutdownTelemetry, err = otel.Init(context.Background(), otel.Config{
			ServiceName: "morpheusd",
			Environment: env,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			Headers:     otel.ParseHeaders(cfg.Telemetry.Headers),
			Traces:      cfg.Telemetry.Traces,
			Metrics:     cfg.Telemetry.Metrics,
		})
		if err != nil {
			logger.Error("Failed to initialise telemetry", slog.Any("error", err))
			os.Exit(1)
		}
	}

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "cache"))
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	store := cache.New(db, cache.TTLPolicy{
		Default: cfg.CacheTTL(),
		PerPrefix: map[string]time.Duration{
			builders.TempKeyPrefix: builders.TempGracePeriod,
		},
	})
	store.SetStats(metrics.Calc())

	official := []builders.Builder{}
	if cfg.OfficialBuildersFile != "" {
		official, err = builders.LoadOfficial(cfg.OfficialBuildersFile)
		if err != nil {
			logger.Error("Failed to load official builder list", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Loaded official builder list", slog.Int("count", len(official)))
	}
	registry := builders.NewRegistry(official, store)

	server := rpc.NewServer(registry, rpc.ServerConfig{
		AuthToken:          cfg.RPCAuthToken,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		AnnualGrowthRate:   cfg.AnnualGrowthRate,
	})

	httpServer := &http.Server{
		Addr:              cfg.RPCAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("RPC server listening", slog.String("address", cfg.RPCAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("RPC server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown failed", slog.Any("error", err))
	}
	if err := shutdownTelemetry(ctx); err != nil {
		logger.Error("Telemetry shutdown failed", slog.Any("error", err))
	}
}
