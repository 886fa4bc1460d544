package api

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/config"
	"github.com/keylab/storefront/internal/credential"
)

// Module exposes the backend client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Holder *credential.Holder
	Logger *slog.Logger
}

func newClient(p clientParams) (*Client, error) {
	return New(p.Config.APIAddress, p.Config.RequestTimeout, p.Holder, p.Logger)
}
