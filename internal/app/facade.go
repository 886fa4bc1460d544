package app

import (
	"context"
	"errors"

	"github.com/keylab/storefront/internal/adapter/api"
	"github.com/keylab/storefront/internal/cart"
	domainErrors "github.com/keylab/storefront/internal/domain/errors"
	"github.com/keylab/storefront/internal/domain/model"
	"github.com/keylab/storefront/internal/live"
	"github.com/keylab/storefront/internal/session"
)

// StorefrontFacade is the single surface the view layer talks to. It owns no
// state of its own; it forwards to the stores and the backend client, and
// routes every unauthorized response into the session's logout path.
type StorefrontFacade struct {
	session *session.Store
	cart    *cart.Store
	live    *live.Channel
	client  *api.Client
}

// NewStorefrontFacade constructs the facade.
func NewStorefrontFacade(sess *session.Store, cartStore *cart.Store, channel *live.Channel, client *api.Client) *StorefrontFacade {
	return &StorefrontFacade{session: sess, cart: cartStore, live: channel, client: client}
}

// guard maps auth rejections onto the shared invalidation path.
func (f *StorefrontFacade) guard(err error) error {
	if errors.Is(err, domainErrors.ErrAuthRejected) {
		f.session.Invalidate()
	}
	return err
}

// Session operations.

func (f *StorefrontFacade) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	return f.session.Login(ctx, email, password)
}

func (f *StorefrontFacade) Signup(ctx context.Context, name, email, password string) (*model.Identity, error) {
	return f.session.Signup(ctx, name, email, password)
}

func (f *StorefrontFacade) Logout() {
	f.session.Logout()
}

func (f *StorefrontFacade) Identity() *model.Identity {
	return f.session.Identity()
}

func (f *StorefrontFacade) SessionState() session.State {
	return f.session.State()
}

// UpdateProfile changes the current user's name and/or password, refreshing
// the stored identity on success.
func (f *StorefrontFacade) UpdateProfile(ctx context.Context, update api.UserUpdate) (*model.Identity, error) {
	identity, err := f.client.UpdateUser(ctx, update)
	if err != nil {
		return nil, f.guard(err)
	}
	return identity, nil
}

// Cart operations.

func (f *StorefrontFacade) LoadCart(ctx context.Context) error {
	return f.cart.Load(ctx)
}

func (f *StorefrontFacade) CartLines() []model.CartLine {
	return f.cart.Lines()
}

func (f *StorefrontFacade) CartTotal() float64 {
	return f.cart.Total()
}

func (f *StorefrontFacade) AddItem(ctx context.Context, productID string, quantity int) error {
	return f.cart.AddItem(ctx, productID, quantity)
}

func (f *StorefrontFacade) SetQuantity(ctx context.Context, productID string, quantity int) error {
	return f.cart.SetQuantity(ctx, productID, quantity)
}

func (f *StorefrontFacade) RemoveItem(ctx context.Context, productID string) error {
	return f.cart.RemoveItem(ctx, productID)
}

func (f *StorefrontFacade) ClearCart(ctx context.Context) error {
	return f.cart.Clear(ctx)
}

func (f *StorefrontFacade) Checkout(ctx context.Context) (*model.Order, error) {
	return f.cart.Checkout(ctx)
}

// Catalog operations.

func (f *StorefrontFacade) SearchProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return f.client.SearchProducts(ctx, filter)
}

func (f *StorefrontFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.client.Product(ctx, id)
}

func (f *StorefrontFacade) Categories(ctx context.Context) ([]string, error) {
	return f.client.Categories(ctx)
}

// Order operations.

func (f *StorefrontFacade) Orders(ctx context.Context) ([]model.Order, error) {
	orders, err := f.client.Orders(ctx)
	if err != nil {
		return nil, f.guard(err)
	}
	return orders, nil
}

func (f *StorefrontFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	order, err := f.client.Order(ctx, id)
	if err != nil {
		return nil, f.guard(err)
	}
	return order, nil
}

// UpdateOrderStatus issues the privileged status-change command.
func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, domainErrors.ValidationError{Detail: "invalid status value"}
	}
	order, err := f.client.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, f.guard(err)
	}
	return order, nil
}

// SubscribeLive registers a listener for server-pushed events.
func (f *StorefrontFacade) SubscribeLive(fn live.Subscriber) func() {
	return f.live.Subscribe(fn)
}

// Admin operations.

func (f *StorefrontFacade) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	stats, err := f.client.AdminStats(ctx)
	if err != nil {
		return nil, f.guard(err)
	}
	return stats, nil
}

func (f *StorefrontFacade) AdminUsers(ctx context.Context, q string, page, limit int) ([]model.Identity, error) {
	users, err := f.client.AdminUsers(ctx, q, page, limit)
	if err != nil {
		return nil, f.guard(err)
	}
	return users, nil
}

func (f *StorefrontFacade) SetUserRole(ctx context.Context, userID string, isAdmin bool) (*model.Identity, error) {
	identity, err := f.client.SetUserRole(ctx, userID, isAdmin)
	if err != nil {
		return nil, f.guard(err)
	}
	return identity, nil
}

func (f *StorefrontFacade) AdminOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := f.client.AdminOrders(ctx)
	if err != nil {
		return nil, f.guard(err)
	}
	return orders, nil
}

func (f *StorefrontFacade) AdminProducts(ctx context.Context) ([]model.Product, error) {
	products, err := f.client.AdminProducts(ctx)
	if err != nil {
		return nil, f.guard(err)
	}
	return products, nil
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, input api.ProductInput) (*model.Product, error) {
	product, err := f.client.CreateProduct(ctx, input)
	if err != nil {
		return nil, f.guard(err)
	}
	return product, nil
}

func (f *StorefrontFacade) UpdateProduct(ctx context.Context, id string, update api.ProductUpdate) (*model.Product, error) {
	product, err := f.client.UpdateProduct(ctx, id, update)
	if err != nil {
		return nil, f.guard(err)
	}
	return product, nil
}

func (f *StorefrontFacade) DeleteProduct(ctx context.Context, id string) error {
	return f.guard(f.client.DeleteProduct(ctx, id))
}
