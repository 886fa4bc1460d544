package di

import (
	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/adapter/api"
	"github.com/keylab/storefront/internal/app"
	"github.com/keylab/storefront/internal/cart"
	"github.com/keylab/storefront/internal/config"
	"github.com/keylab/storefront/internal/credential"
	"github.com/keylab/storefront/internal/live"
	"github.com/keylab/storefront/internal/logger"
	"github.com/keylab/storefront/internal/session"
)

// Module assembles the full client dependency graph.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		credential.Module,
		api.Module,
		session.Module,
		cart.Module,
		live.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
