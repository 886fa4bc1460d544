package test

import (
	"context"
	"sync"

	"github.com/keylab/storefront/internal/domain/model"
)

// AuthAPIStub lets tests script the backend auth surface.
type AuthAPIStub struct {
	LoginFn       func(ctx context.Context, email, password string) (string, error)
	SignupFn      func(ctx context.Context, name, email, password string) (*model.Identity, error)
	CurrentUserFn func(ctx context.Context) (*model.Identity, error)
}

func (s *AuthAPIStub) Login(ctx context.Context, email, password string) (string, error) {
	return s.LoginFn(ctx, email, password)
}

func (s *AuthAPIStub) Signup(ctx context.Context, name, email, password string) (*model.Identity, error) {
	return s.SignupFn(ctx, name, email, password)
}

func (s *AuthAPIStub) CurrentUser(ctx context.Context) (*model.Identity, error) {
	return s.CurrentUserFn(ctx)
}

// CredentialStoreStub keeps the token in memory and records operations.
type CredentialStoreStub struct {
	Token   string
	LoadErr error
	SaveErr error
	Saves   int
	Clears  int
}

func (s *CredentialStoreStub) Load() (string, error) {
	if s.LoadErr != nil {
		return "", s.LoadErr
	}
	return s.Token, nil
}

func (s *CredentialStoreStub) Save(token string) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Token = token
	s.Saves++
	return nil
}

func (s *CredentialStoreStub) Clear() error {
	s.Token = ""
	s.Clears++
	return nil
}

// InvalidatorStub records session invalidations triggered by stores.
type InvalidatorStub struct {
	mu    sync.Mutex
	calls int
}

func (s *InvalidatorStub) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

// Calls returns how many times Invalidate ran.
func (s *InvalidatorStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// CartAPIStub scripts the backend cart surface per operation.
type CartAPIStub struct {
	CartFn           func(ctx context.Context) ([]model.CartEntry, error)
	ProductFn        func(ctx context.Context, id string) (*model.Product, error)
	AddToCartFn      func(ctx context.Context, productID string, quantity int) error
	UpdateCartFn     func(ctx context.Context, productID string, quantity int) error
	RemoveFromCartFn func(ctx context.Context, productID string) error
	ClearCartFn      func(ctx context.Context) error
	PlaceOrderFn     func(ctx context.Context) (*model.Order, error)
}

func (s *CartAPIStub) Cart(ctx context.Context) ([]model.CartEntry, error) {
	return s.CartFn(ctx)
}

func (s *CartAPIStub) Product(ctx context.Context, id string) (*model.Product, error) {
	return s.ProductFn(ctx, id)
}

func (s *CartAPIStub) AddToCart(ctx context.Context, productID string, quantity int) error {
	return s.AddToCartFn(ctx, productID, quantity)
}

func (s *CartAPIStub) UpdateCart(ctx context.Context, productID string, quantity int) error {
	return s.UpdateCartFn(ctx, productID, quantity)
}

func (s *CartAPIStub) RemoveFromCart(ctx context.Context, productID string) error {
	return s.RemoveFromCartFn(ctx, productID)
}

func (s *CartAPIStub) ClearCart(ctx context.Context) error {
	return s.ClearCartFn(ctx)
}

func (s *CartAPIStub) PlaceOrder(ctx context.Context) (*model.Order, error) {
	return s.PlaceOrderFn(ctx)
}
