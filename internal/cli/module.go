package cli

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/app"
	"github.com/keylab/storefront/internal/config"
)

// Module wires the interactive shell and runs it for the lifetime of the
// process.
var Module = fx.Options(
	fx.Provide(newShell),
	fx.Invoke(registerShell),
)

func newShell(facade *app.StorefrontFacade, cfg *config.Config) *Shell {
	return NewShell(facade, cfg.PageLimit, os.Stdin, os.Stdout)
}

type shellParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Shell      *Shell
}

func registerShell(p shellParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := p.Shell.Run(context.Background()); err != nil {
					p.Logger.Error("shell terminated", slog.String("error", err.Error()))
				}
				_ = p.Shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
