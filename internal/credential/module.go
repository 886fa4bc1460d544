package credential

import (
	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/config"
)

// Module wires the in-memory holder and the durable file store.
var Module = fx.Options(
	fx.Provide(NewHolder),
	fx.Provide(newFileStore),
	fx.Provide(func(s *FileStore) Store { return s }),
)

func newFileStore(cfg *config.Config) (*FileStore, error) {
	return NewFileStore(cfg.TokenFile)
}
