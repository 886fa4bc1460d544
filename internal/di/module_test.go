package di_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/keylab/storefront/internal/app"
	"github.com/keylab/storefront/internal/config"
	"github.com/keylab/storefront/internal/di"
	"github.com/keylab/storefront/internal/session"
	testhelpers "github.com/keylab/storefront/internal/test"
)

func testConfig(t *testing.T, backend *testhelpers.Backend) *config.Config {
	t.Helper()
	return &config.Config{
		APIAddress:     backend.URL(),
		WSAddress:      backend.WSURL(),
		TokenFile:      filepath.Join(t.TempDir(), "token"),
		RequestTimeout: 5 * time.Second,
		PageLimit:      12,
	}
}

func TestGraphIsComplete(t *testing.T) {
	backend := testhelpers.NewBackend()
	defer backend.Close()

	err := fx.ValidateApp(
		di.Module(fx.Replace(testConfig(t, backend))),
		fx.NopLogger,
	)
	if err != nil {
		t.Fatalf("dependency graph incomplete: %v", err)
	}
}

func TestAppStartsLogsInAndStops(t *testing.T) {
	backend := testhelpers.NewBackend()
	defer backend.Close()
	if _, err := backend.Server.SeedUser("Ada", "ada@x.com", "pw", false); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var facade *app.StorefrontFacade
	fxApp := fx.New(
		fx.NopLogger,
		di.Module(fx.Replace(testConfig(t, backend))),
		fx.Populate(&facade),
	)
	if fxApp.Err() != nil {
		t.Fatalf("build app: %v", fxApp.Err())
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStart()
	if err := fxApp.Start(startCtx); err != nil {
		t.Fatalf("start: %v", err)
	}

	if facade.SessionState() != session.StateAnonymous {
		t.Fatalf("fresh client must start anonymous, got %s", facade.SessionState())
	}

	identity, err := facade.Login(context.Background(), "ada@x.com", "pw")
	if err != nil {
		t.Fatalf("login through assembled graph: %v", err)
	}
	if identity.Email != "ada@x.com" {
		t.Fatalf("unexpected identity %+v", identity)
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStop()
	if err := fxApp.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
