package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	pkgconfig "github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/logging"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
	"github.com/grace-raper/cbs-pickems-agent/internal/preview"
)

const defaultConfigPath = "configs/local.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Icon fetch failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseFlags()

	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "fetch-icons"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := teams.NewRegistryWithOverrides(cfg.Teams.Overrides)
	fetched, err := preview.NewIconStore(cfg.Preview.IconsDir, reg).Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Downloaded %d team icons to %s\n", fetched, cfg.Preview.IconsDir)
	return nil
}

func parseFlags() string {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	configPath := flag.String("config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()
	return *configPath
}
