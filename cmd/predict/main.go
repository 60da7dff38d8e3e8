package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	pkgconfig "github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/logging"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/storage"
	"github.com/grace-raper/cbs-pickems-agent/internal/predictor"
)

const defaultConfigPath = "configs/local.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Prediction failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath, schedulePath := parseFlags()

	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "predict"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	store := storage.NewFileStore(cfg.Storage.RootDir)
	if schedulePath == "" {
		schedulePath = store.DefaultSchedulePath()
	}

	schedule, err := store.LoadSchedule(schedulePath)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}
	slog.Info("Schedule loaded", "path", schedulePath, "matchups", len(schedule.Matchups))

	predictions := predictor.New(cfg.Predictor).Predict(schedule)

	outPath := storage.PredictionsPathFor(schedulePath)
	if err := store.SavePredictions(outPath, predictions); err != nil {
		return fmt.Errorf("saving predictions: %w", err)
	}
	slog.Info("Predictions saved", "path", outPath)
	fmt.Printf("✅ %d picks saved to %s\n", len(predictions), outPath)
	return nil
}

func parseFlags() (configPath, schedulePath string) {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()

	// Optional positional argument: path to a matchups.json document.
	schedulePath = flag.Arg(0)
	return configPath, schedulePath
}
