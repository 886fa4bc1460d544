package live

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/config"
)

// Module exposes the live update channel to the fx graph.
var Module = fx.Provide(newChannel)

type channelParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newChannel(p channelParams) (*Channel, error) {
	return New(p.Config.WSAddress, p.Logger)
}
