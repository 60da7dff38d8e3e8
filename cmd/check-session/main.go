package main

import (
	"context"
	"errors"
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
)

const defaultConfigPath = "configs/local.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Session check failed", "error", err)
		fmt.Println("❌ Session is invalid. Run the login tool to re-authenticate.")
		os.Exit(1)
	}
	fmt.Println("✅ Session is valid.")
}

func run() error {
	configPath := parseFlags()

	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "check-session"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session, err := browser.NewSession(&cfg.Browser, cfg.Pool.StateFile)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	if !session.HasState() {
		return fmt.Errorf("no saved session state at %s", cfg.Pool.StateFile)
	}
	if err := session.RestoreState(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	drv := session.Driver()
	if err := drv.Navigate(ctx, cfg.Pool.URL); err != nil {
		return fmt.Errorf("opening pool page: %w", err)
	}

	// The logged-in page shows matchup containers; the login redirect does
	// not. That is the whole check.
	if err := drv.WaitVisible(ctx, extractor.ContainerSelector, cfg.Extractor.PageTimeout); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return fmt.Errorf("pool page never showed matchups, session likely expired: %w", err)
		}
		return fmt.Errorf("checking pool page: %w", err)
	}

	slog.Info("Session verified", "url", cfg.Pool.URL)
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
