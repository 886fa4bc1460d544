package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	domainErrors "github.com/keylab/storefront/internal/domain/errors"
	"github.com/keylab/storefront/internal/domain/model"
)

// API is the backend surface the cart store needs.
type API interface {
	Cart(ctx context.Context) ([]model.CartEntry, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	AddToCart(ctx context.Context, productID string, quantity int) error
	UpdateCart(ctx context.Context, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
	PlaceOrder(ctx context.Context) (*model.Order, error)
}

// SessionControl is the slice of the session store the cart may trigger: an
// unauthorized response from any cart operation invalidates the credential.
type SessionControl interface {
	Invalidate()
}

// Store mirrors the authenticated user's server-side cart. The server stays
// the source of truth: every successful mutation settles on an authoritative
// reload (or state provably equal to one), never on local arithmetic alone.
type Store struct {
	api     API
	session SessionControl
	logger  *slog.Logger

	mu    sync.Mutex
	lines []model.CartLine
}

// New creates an empty cart store.
func New(api API, session SessionControl, logger *slog.Logger) *Store {
	return &Store{api: api, session: session, logger: logger}
}

// Lines returns a copy of the current cart lines in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CartLine(nil), s.lines...)
}

// Total sums quantity times unit price over resolved lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CartTotal(s.lines)
}

// Reset drops local state. Called when the identity goes absent.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Load fetches the server cart and resolves product snapshots in parallel.
// A failed individual lookup keeps the line with a nil snapshot instead of
// aborting the load.
func (s *Store) Load(ctx context.Context) error {
	entries, err := s.api.Cart(ctx)
	if err != nil {
		return s.fail(err)
	}

	snapshots := make([]*model.Product, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, productID string) {
			defer wg.Done()
			product, err := s.api.Product(ctx, productID)
			if err != nil {
				s.logger.Warn("cart product resolution failed",
					slog.String("product_id", productID),
					slog.String("error", err.Error()))
				return
			}
			snapshots[i] = product
		}(i, entry.ProductID)
	}
	wg.Wait()

	lines := make([]model.CartLine, 0, len(entries))
	for i, entry := range entries {
		if entry.Quantity <= 0 {
			continue
		}
		lines = append(lines, model.CartLine{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Snapshot:  snapshots[i],
		})
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return nil
}

// AddItem sends an additive update, then reloads the authoritative state
// rather than trusting optimistic arithmetic.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return domainErrors.ValidationError{Detail: "product id must not be empty"}
	}
	if quantity < 1 {
		return domainErrors.ValidationError{Detail: "quantity must be a positive integer"}
	}

	if err := s.api.AddToCart(ctx, productID, quantity); err != nil {
		return s.fail(err)
	}
	return s.Load(ctx)
}

// SetQuantity applies the change locally for responsiveness, then confirms
// against the backend. Quantity zero removes the line. A backend rejection
// reverts to a fresh authoritative load.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return domainErrors.ValidationError{Detail: "quantity must not be negative"}
	}

	applied := s.applyLocal(productID, quantity)

	err := s.api.UpdateCart(ctx, productID, quantity)
	if err == nil {
		if !applied {
			// The backend accepted an update for a line the local cart never
			// held; reload so local state matches the server.
			return s.Load(ctx)
		}
		return nil
	}
	if quantity == 0 && errors.Is(err, domainErrors.ErrNotFound) {
		// Another session already removed the line; local and server agree.
		return nil
	}
	if errors.Is(err, domainErrors.ErrAuthRejected) {
		return s.fail(err)
	}
	if loadErr := s.Load(ctx); loadErr != nil {
		s.logger.Error("revert reload failed", slog.String("error", loadErr.Error()))
	}
	return err
}

// RemoveItem removes one product from the cart. Semantically identical to
// SetQuantity(productID, 0); uses the backend's dedicated removal route.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	err := s.api.RemoveFromCart(ctx, productID)
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return s.fail(err)
	}
	return s.Load(ctx)
}

// Clear empties the cart server-side and locally.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.api.ClearCart(ctx); err != nil {
		return s.fail(err)
	}
	s.Reset()
	return nil
}

// Checkout submits an order for the current cart. On success the local cart
// is cleared (the backend clears its copy); on failure the cart is left
// untouched.
func (s *Store) Checkout(ctx context.Context) (*model.Order, error) {
	s.mu.Lock()
	empty := len(s.lines) == 0
	s.mu.Unlock()
	if empty {
		return nil, domainErrors.ValidationError{Detail: "cart is empty"}
	}

	order, err := s.api.PlaceOrder(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	s.Reset()
	return order, nil
}

// applyLocal performs the optimistic half of SetQuantity. It reports whether
// the change landed on a local line; removal of an absent line counts as
// landed since both sides agree the line is gone.
func (s *Store) applyLocal(productID string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity == 0 {
		kept := s.lines[:0:0]
		for _, line := range s.lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		s.lines = kept
		return true
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			return true
		}
	}
	return false
}

// fail routes unauthorized responses into the session's logout path and
// clears local state so no stale cart outlives the identity.
func (s *Store) fail(err error) error {
	if errors.Is(err, domainErrors.ErrAuthRejected) {
		s.Reset()
		s.session.Invalidate()
	}
	return err
}
