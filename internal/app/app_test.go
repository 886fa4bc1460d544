package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keylab/storefront/internal/adapter/api"
	"github.com/keylab/storefront/internal/cart"
	"github.com/keylab/storefront/internal/credential"
	domainErrors "github.com/keylab/storefront/internal/domain/errors"
	"github.com/keylab/storefront/internal/domain/model"
	"github.com/keylab/storefront/internal/live"
	"github.com/keylab/storefront/internal/session"
	testhelpers "github.com/keylab/storefront/internal/test"
)

type appFixture struct {
	backend  *testhelpers.Backend
	facade   *StorefrontFacade
	session  *session.Store
	cart     *cart.Store
	live     *live.Channel
	creds    *testhelpers.CredentialStoreStub
	recorder *testhelpers.LifecycleRecorder
}

func newAppFixture(t *testing.T, creds *testhelpers.CredentialStoreStub) *appFixture {
	t.Helper()
	backend := testhelpers.NewBackend()
	t.Cleanup(backend.Close)

	if _, err := backend.Server.SeedUser("Ada", "ada@x.com", "pw", false); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	holder := credential.NewHolder()
	client, err := api.New(backend.URL(), 5*time.Second, holder, testhelpers.Logger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	sess := session.New(client, creds, holder, testhelpers.Logger())
	cartStore := cart.New(client, sess, testhelpers.Logger())
	channel, err := live.New(backend.WSURL(), testhelpers.Logger())
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	t.Cleanup(channel.Close)

	recorder := &testhelpers.LifecycleRecorder{}
	registerLifecycle(lifecycleParams{
		Lifecycle: recorder,
		Logger:    testhelpers.Logger(),
		Session:   sess,
		Cart:      cartStore,
		Live:      channel,
	})

	return &appFixture{
		backend:  backend,
		facade:   NewStorefrontFacade(sess, cartStore, channel, client),
		session:  sess,
		cart:     cartStore,
		live:     channel,
		creds:    creds,
		recorder: recorder,
	}
}

func issueToken(t *testing.T, backend *testhelpers.Backend) string {
	t.Helper()
	holder := credential.NewHolder()
	client, err := api.New(backend.URL(), 5*time.Second, holder, testhelpers.Logger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	token, err := client.Login(context.Background(), "ada@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return token
}

func TestStartResumesPersistedSession(t *testing.T) {
	creds := &testhelpers.CredentialStoreStub{}
	f := newAppFixture(t, creds)
	creds.Token = issueToken(t, f.backend)

	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.session.State() != session.StateAuthenticated {
		t.Fatalf("expected authenticated after resume, got %s", f.session.State())
	}
	if !f.live.IsOpen() {
		t.Fatal("live channel must open with the resumed session")
	}

	if err := f.recorder.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if f.live.IsOpen() {
		t.Fatal("live channel must close on shutdown")
	}
}

func TestStartWithStaleCredentialStaysAnonymous(t *testing.T) {
	creds := &testhelpers.CredentialStoreStub{Token: "stale-token"}
	f := newAppFixture(t, creds)

	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.session.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", f.session.State())
	}
	if f.live.IsOpen() {
		t.Fatal("live channel must stay closed without an identity")
	}
	if creds.Token != "" {
		t.Fatal("stale credential must be purged")
	}
}

func TestStartWithDeadBackendLeavesClientUsable(t *testing.T) {
	creds := &testhelpers.CredentialStoreStub{Token: "some-token"}
	f := newAppFixture(t, creds)
	f.backend.Close()

	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("an unreachable backend must not abort startup: %v", err)
	}
	if f.session.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", f.session.State())
	}
}

func TestLoginOpensLiveChannelLogoutClosesIt(t *testing.T) {
	f := newAppFixture(t, &testhelpers.CredentialStoreStub{})
	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.facade.Login(context.Background(), "ada@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !f.live.IsOpen() {
		t.Fatal("live channel must open on login")
	}

	product := f.backend.Server.SeedProduct(model.Product{Name: "Lamp", Price: 20, InStock: true})
	if err := f.facade.AddItem(context.Background(), product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	f.facade.Logout()
	if f.live.IsOpen() {
		t.Fatal("live channel must close on logout")
	}
	if len(f.facade.CartLines()) != 0 {
		t.Fatal("cart must reset on logout")
	}
	if f.facade.Identity() != nil {
		t.Fatal("identity must be gone after logout")
	}
}

func TestRejectedReloginKeepsLiveChannelAndCart(t *testing.T) {
	f := newAppFixture(t, &testhelpers.CredentialStoreStub{})
	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.facade.Login(context.Background(), "ada@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	product := f.backend.Server.SeedProduct(model.Product{Name: "Lamp", Price: 20, InStock: true})
	if err := f.facade.AddItem(context.Background(), product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := f.facade.Login(context.Background(), "ada@x.com", "typo")
	if !errors.Is(err, domainErrors.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}

	if f.session.State() != session.StateAuthenticated {
		t.Fatalf("expected authenticated, got %s", f.session.State())
	}
	if !f.live.IsOpen() {
		t.Fatal("live channel must survive a rejected re-login")
	}
	if len(f.facade.CartLines()) != 1 {
		t.Fatal("cart must survive a rejected re-login")
	}
}

func TestAuthRejectionOnOrdersInvalidatesSession(t *testing.T) {
	f := newAppFixture(t, &testhelpers.CredentialStoreStub{})
	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.facade.Login(context.Background(), "ada@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	f.backend.Server.RevokeToken(f.session.Credential())

	_, err := f.facade.Orders(context.Background())
	if !errors.Is(err, domainErrors.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if f.session.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous after rejection, got %s", f.session.State())
	}
	if f.live.IsOpen() {
		t.Fatal("live channel must close when the credential dies")
	}
}

func TestPrivilegedRouteRejectionForRegularUser(t *testing.T) {
	f := newAppFixture(t, &testhelpers.CredentialStoreStub{})
	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.facade.Login(context.Background(), "ada@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err := f.facade.AdminStats(context.Background())
	if !errors.Is(err, domainErrors.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if f.session.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", f.session.State())
	}
}

func TestUpdateOrderStatusValidatesLocally(t *testing.T) {
	f := newAppFixture(t, &testhelpers.CredentialStoreStub{})

	_, err := f.facade.UpdateOrderStatus(context.Background(), "o-1", model.OrderStatus("teleported"))
	var ve domainErrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCheckoutScenario(t *testing.T) {
	f := newAppFixture(t, &testhelpers.CredentialStoreStub{})
	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.facade.Login(context.Background(), "ada@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	product := f.backend.Server.SeedProduct(model.Product{Name: "Lamp", Price: 20, InStock: true})

	if err := f.facade.AddItem(context.Background(), product.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.facade.SetQuantity(context.Background(), product.ID, 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	_, err := f.facade.Checkout(context.Background())
	var ve domainErrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("emptied cart must fail checkout with ValidationError, got %v", err)
	}

	if err := f.facade.AddItem(context.Background(), product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	order, err := f.facade.Checkout(context.Background())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.Status != model.OrderStatusPending || len(f.facade.CartLines()) != 0 {
		t.Fatalf("unexpected post-checkout state: %+v, %d lines", order, len(f.facade.CartLines()))
	}

	orders, err := f.facade.Orders(context.Background())
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("unexpected order history %+v", orders)
	}
}

func TestLiveEventsReachFacadeSubscribers(t *testing.T) {
	f := newAppFixture(t, &testhelpers.CredentialStoreStub{})
	if err := f.recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.facade.Login(context.Background(), "ada@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	product := f.backend.Server.SeedProduct(model.Product{Name: "Lamp", Price: 20, InStock: true})
	if err := f.facade.AddItem(context.Background(), product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	order, err := f.facade.Checkout(context.Background())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	events := make(chan model.LiveEvent, 16)
	cancel := f.facade.SubscribeLive(func(event model.LiveEvent) { events <- event })
	defer cancel()

	// An admin ships the order; the user's channel carries the update.
	if _, err := f.backend.Server.SeedUser("Root", "root@x.com", "pw", true); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	adminHolder := credential.NewHolder()
	admin, err := api.New(f.backend.URL(), 5*time.Second, adminHolder, testhelpers.Logger())
	if err != nil {
		t.Fatalf("create admin client: %v", err)
	}
	adminToken, err := admin.Login(context.Background(), "root@x.com", "pw")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	adminHolder.Set(adminToken)

	deadline := time.After(3 * time.Second)
	if _, err := admin.UpdateOrderStatus(context.Background(), order.ID, model.OrderStatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}
	select {
	case event := <-events:
		if event.Type != model.LiveEventOrderStatus || event.OrderID != order.ID || event.Status != model.OrderStatusShipped {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-deadline:
		t.Fatal("timed out waiting for live event")
	}
}
