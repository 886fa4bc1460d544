package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/cli"
	"github.com/keylab/storefront/internal/config"
	"github.com/keylab/storefront/internal/di"
	"github.com/keylab/storefront/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.DemoMode {
		stopDemo, err := startDemoBackend(cfg, logger.New())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start demo backend: %v\n", err)
			os.Exit(1)
		}
		defer stopDemo()
	}

	app := fx.New(
		fx.NopLogger,
		di.Module(fx.Replace(cfg)),
		cli.Module,
	)

	run(ctx, app)
}
