package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aradsms/recipient_intake/internal/platform/config"
	"github.com/aradsms/recipient_intake/internal/platform/logger"
	"github.com/aradsms/recipient_intake/internal/recipient_service/adapters/cli"
)

const serviceName = "recipients_cli"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	// Logs go to stderr so command output stays machine readable
	appLogger := logger.NewWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	appLogger = appLogger.With("service", serviceName)

	app, err := cli.NewApp(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
