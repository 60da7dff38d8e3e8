package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/grace-raper/cbs-pickems-agent/internal/browser"
	pkgconfig "github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/logging"
)

const defaultConfigPath = "configs/local.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Login failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseFlags()

	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "login"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Login is interactive: the browser must be visible.
	browserCfg := cfg.Browser
	browserCfg.Headless = false

	session, err := browser.NewSession(&browserCfg, cfg.Pool.StateFile)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	slog.Info("Opening pool page", "url", cfg.Pool.URL)
	if err := session.Driver().Navigate(ctx, cfg.Pool.URL); err != nil {
		return fmt.Errorf("opening pool page: %w", err)
	}

	fmt.Println("A browser window is open. Log in to CBS Sports, then press Enter here.")
	if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err != nil {
		return fmt.Errorf("waiting for confirmation: %w", err)
	}

	if err := session.SaveState(ctx); err != nil {
		return fmt.Errorf("saving session state: %w", err)
	}
	slog.Info("Session state saved", "path", cfg.Pool.StateFile)
	fmt.Printf("Session saved to %s\n", cfg.Pool.StateFile)
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
