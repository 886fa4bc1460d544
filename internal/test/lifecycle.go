package test

import (
	"context"

	"go.uber.org/fx"
)

// LifecycleRecorder captures fx hooks so tests can drive them directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (r *LifecycleRecorder) Append(hook fx.Hook) {
	r.Hooks = append(r.Hooks, hook)
}

// Start runs all recorded OnStart hooks.
func (r *LifecycleRecorder) Start(ctx context.Context) error {
	for _, hook := range r.Hooks {
		if hook.OnStart != nil {
			if err := hook.OnStart(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stop runs all recorded OnStop hooks in reverse order.
func (r *LifecycleRecorder) Stop(ctx context.Context) error {
	for i := len(r.Hooks) - 1; i >= 0; i-- {
		if r.Hooks[i].OnStop != nil {
			if err := r.Hooks[i].OnStop(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// ShutdownerStub records shutdown requests.
type ShutdownerStub struct {
	Called chan struct{}
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	select {
	case s.Called <- struct{}{}:
	default:
	}
	return nil
}
