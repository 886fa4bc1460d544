package app

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/cart"
	"github.com/keylab/storefront/internal/live"
	"github.com/keylab/storefront/internal/session"
)

// Module wires the facade and the session-driven lifecycle.
var Module = fx.Options(
	fx.Provide(NewStorefrontFacade),
	fx.Invoke(registerLifecycle),
)

type lifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *slog.Logger
	Session   *session.Store
	Cart      *cart.Store
	Live      *live.Channel
}

// registerLifecycle resumes a persisted session on start and ties the live
// channel to identity transitions: open while authenticated, closed and cart
// reset otherwise.
func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Session.Subscribe(func(state session.State) {
				switch state {
				case session.StateAuthenticated:
					if p.Live.IsOpen() {
						return
					}
					if err := p.Live.Open(context.Background(), p.Session.Credential()); err != nil {
						p.Logger.Warn("live channel unavailable", slog.String("error", err.Error()))
					}
				case session.StateAnonymous:
					p.Cart.Reset()
					p.Live.Close()
				}
			})

			if err := p.Session.Resume(ctx); err != nil {
				// A dead backend at startup leaves the client anonymous; the
				// user can retry by logging in.
				p.Logger.Warn("session resume failed", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			p.Live.Close()
			p.Logger.Info("storefront client stopped")
			return nil
		},
	})
}
