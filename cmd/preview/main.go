package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	pkgconfig "github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/logging"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/storage"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
	"github.com/grace-raper/cbs-pickems-agent/internal/preview"
)

const defaultConfigPath = "configs/local.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Preview generation failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath, weekDir := parseFlags()

	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "preview"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := storage.NewFileStore(cfg.Storage.RootDir)
	schedulePath := filepath.Join(weekDir, storage.ScheduleFileName)
	if weekDir == "" {
		schedulePath = store.DefaultSchedulePath()
		weekDir = filepath.Dir(schedulePath)
	}

	schedule, err := store.LoadSchedule(schedulePath)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}
	predictions, err := store.LoadPredictions(storage.PredictionsPathFor(schedulePath))
	if err != nil {
		return fmt.Errorf("loading predictions: %w", err)
	}

	// No session needed; the rendered page is local.
	session, err := browser.NewSession(&cfg.Browser, cfg.Pool.StateFile)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	icons := preview.NewIconStore(cfg.Preview.IconsDir, teams.NewRegistryWithOverrides(cfg.Teams.Overrides))
	if err := preview.New(session.Driver(), icons).Generate(ctx, schedule, predictions, weekDir); err != nil {
		return fmt.Errorf("generating previews: %w", err)
	}

	fmt.Printf("✅ Preview images written to %s\n", weekDir)
	return nil
}

func parseFlags() (configPath, weekDir string) {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()

	// Optional positional argument: week folder with matchups.json and
	// my_picks.json. Empty = current week folder.
	weekDir = flag.Arg(0)
	return configPath, weekDir
}
