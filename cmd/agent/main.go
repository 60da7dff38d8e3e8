package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/grace-raper/cbs-pickems-agent/internal/notify"
	pkgconfig "github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/logging"
	"github.com/grace-raper/cbs-pickems-agent/internal/workflow"
)

const defaultConfigPath = "configs/local.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Workflow failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseFlags()

	cfg, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logging.Setup(&cfg.Logging, "agent"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if notifier == nil {
		slog.Info("Telegram notifications disabled")
	}

	slog.Info("Starting weekly pick'em workflow")
	return workflow.New(cfg, notifier).Run(ctx)
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
