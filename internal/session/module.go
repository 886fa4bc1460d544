package session

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/adapter/api"
	"github.com/keylab/storefront/internal/credential"
)

// Module wires the session store.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Client *api.Client
	Creds  credential.Store
	Holder *credential.Holder
	Logger *slog.Logger
}

func newStore(p storeParams) *Store {
	return New(p.Client, p.Creds, p.Holder, p.Logger)
}
