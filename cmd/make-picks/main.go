package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	"github.com/grace-raper/cbs-pickems-agent/internal/picks"
	pkgconfig "github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/logging"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/storage"
)

const defaultConfigPath = "configs/local.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Pick application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath, predictionsPath := parseFlags()

	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "make-picks"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := storage.NewFileStore(cfg.Storage.RootDir)
	if predictionsPath == "" {
		predictionsPath = storage.PredictionsPathFor(store.DefaultSchedulePath())
	}

	predictions, err := store.LoadPredictions(predictionsPath)
	if err != nil {
		return fmt.Errorf("loading predictions: %w", err)
	}
	slog.Info("Predictions loaded", "path", predictionsPath, "picks", len(predictions))

	session, err := browser.NewSession(&cfg.Browser, cfg.Pool.StateFile)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	if !session.HasState() {
		return fmt.Errorf("no saved session state at %s, run the login tool first", cfg.Pool.StateFile)
	}
	if err := session.RestoreState(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	drv := session.Driver()
	if err := drv.Navigate(ctx, cfg.Pool.URL); err != nil {
		return fmt.Errorf("opening pool page: %w", err)
	}

	result, err := picks.New(drv, cfg.Picks).Apply(ctx, predictions)
	if err != nil {
		return fmt.Errorf("applying picks: %w", err)
	}

	if err := session.SaveState(ctx); err != nil {
		slog.Warn("Failed to refresh saved session", "error", err)
	}

	fmt.Printf("✅ Picks applied: %d new, %d already set, %d skipped\n",
		result.Applied, result.AlreadySet, result.Skipped)
	return nil
}

func parseFlags() (configPath, predictionsPath string) {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()

	// Optional positional argument: path to a my_picks.json document.
	predictionsPath = flag.Arg(0)
	return configPath, predictionsPath
}
