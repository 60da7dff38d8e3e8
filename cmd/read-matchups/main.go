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
	"github.com/grace-raper/cbs-pickems-agent/internal/extractor"
	pkgconfig "github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/logging"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/storage"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

const defaultConfigPath = "configs/local.yaml"

type flags struct {
	configPath string
	outPath    string
}

func main() {
	if err := run(); err != nil {
		slog.Error("Matchup extraction failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags()

	cfg, err := pkgconfig.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "read-matchups"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session, err := browser.NewSession(&cfg.Browser, cfg.Pool.StateFile)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	if session.HasState() {
		if err := session.RestoreState(ctx); err != nil {
			return fmt.Errorf("restoring session: %w", err)
		}
	} else {
		slog.Warn("No saved session state, proceeding unauthenticated", "path", cfg.Pool.StateFile)
	}

	drv := session.Driver()
	slog.Info("Opening pool page", "url", cfg.Pool.URL)
	if err := drv.Navigate(ctx, cfg.Pool.URL); err != nil {
		return fmt.Errorf("opening pool page: %w", err)
	}

	reg := teams.NewRegistryWithOverrides(cfg.Teams.Overrides)
	schedule, err := extractor.New(drv, reg, cfg.Extractor).Extract(ctx)
	if err != nil {
		return fmt.Errorf("extracting matchups: %w", err)
	}

	store := storage.NewFileStore(cfg.Storage.RootDir)
	outPath := f.outPath
	if outPath == "" {
		outPath = store.DefaultSchedulePath()
	}
	if err := store.SaveSchedule(outPath, schedule); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	slog.Info("Schedule saved", "path", outPath, "matchups", len(schedule.Matchups))
	fmt.Printf("✅ %d matchups saved to %s\n", len(schedule.Matchups), outPath)

	if cfg.Postgres.DSN != "" {
		arch, err := storage.NewPostgresArchive(&cfg.Postgres)
		if err != nil {
			slog.Warn("Postgres archive unavailable", "error", err)
			return nil
		}
		defer arch.Close()
		if err := arch.ArchiveSchedule(ctx, schedule); err != nil {
			slog.Warn("Postgres archive write failed", "error", err)
		}
	}
	return nil
}

func parseFlags() flags {
	var f flags

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&f.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&f.outPath, "out", "", "Schedule output path. Empty = current week folder or ./matchups.json")
	flag.Parse()
	return f
}
