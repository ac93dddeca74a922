package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/shipment-planner/internal/application"
	"github.com/eugenenazirov/shipment-planner/internal/config"
	"github.com/eugenenazirov/shipment-planner/internal/logging"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
)

var signalNotify = signal.Notify

func main() {
	overrides, err := parseOverrides(os.Args[1:])
	kingpin.FatalIfError(err, "parse flags")

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// parseOverrides turns command-line flags into configuration overrides. Flags
// left unset do not override lower-precedence sources.
func parseOverrides(args []string) (*config.CLIOverrides, error) {
	app := kingpin.New("shipment-planner", "Shipment Planner - packs artwork orders into boxes, pallets and crates")
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	port := app.Flag("port", "HTTP port exposed by the service").String()
	strategy := app.Flag("strategy", fmt.Sprintf("Default packing strategy (%s)", strings.Join(packing.Strategies(), ", "))).String()
	catalogFile := app.Flag("catalog", "Path to YAML catalog applied over the built-in catalog").String()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPS := app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurst := app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}
	for _, pair := range []struct {
		raw *string
		dst **string
	}{
		{port, &overrides.Port},
		{strategy, &overrides.Strategy},
		{catalogFile, &overrides.CatalogFile},
		{logLevel, &overrides.LogLevel},
	} {
		if *pair.raw != "" {
			*pair.dst = pair.raw
		}
	}
	if *rateLimitRPS >= 0 {
		overrides.RateLimitRPS = rateLimitRPS
	}
	if *rateLimitBurst >= 0 {
		overrides.RateLimitBurst = rateLimitBurst
	}
	return overrides, nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
