package cart

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/adapter/api"
	"github.com/keylab/storefront/internal/session"
)

// Module wires the cart store.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Client  *api.Client
	Session *session.Store
	Logger  *slog.Logger
}

func newStore(p storeParams) *Store {
	return New(p.Client, p.Session, p.Logger)
}
