package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	domainErrors "github.com/keylab/storefront/internal/domain/errors"
	"github.com/keylab/storefront/internal/domain/model"
)

// State is the session lifecycle position.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateRejected       State = "rejected"
)

// AuthAPI is the backend surface the store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, name, email, password string) (*model.Identity, error)
	CurrentUser(ctx context.Context) (*model.Identity, error)
}

// CredentialStore persists the token across restarts.
type CredentialStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Holder is the in-memory credential slot read by the HTTP adapter.
type Holder interface {
	Set(token string)
	Clear()
}

// Listener observes settled state transitions.
type Listener func(State)

// Store owns the credential and the authenticated identity. Identity is
// present exactly when the credential is present and was accepted by the
// backend on last check.
type Store struct {
	api    AuthAPI
	creds  CredentialStore
	holder Holder
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	token    string
	identity *model.Identity

	listenerMu sync.Mutex
	listeners  map[int64]Listener
	nextID     int64
}

// New creates an anonymous session store.
func New(api AuthAPI, creds CredentialStore, holder Holder, logger *slog.Logger) *Store {
	return &Store{
		api:       api,
		creds:     creds,
		holder:    holder,
		logger:    logger,
		state:     StateAnonymous,
		listeners: make(map[int64]Listener),
	}
}

// State returns the current lifecycle position.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the authenticated profile or nil.
func (s *Store) Identity() *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Credential returns the active token or empty string.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers a listener for settled transitions. The returned
// function removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

// Resume derives the session from a persisted credential at process start.
// Exactly one identity fetch is attempted; failure purges the credential.
func (s *Store) Resume(ctx context.Context) error {
	token, err := s.creds.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.holder.Set(token)
	s.mu.Unlock()

	identity, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.purge()
		s.notify(StateAnonymous)
		if errors.Is(err, domainErrors.ErrAuthRejected) || errors.Is(err, domainErrors.ErrNotFound) {
			s.logger.Info("persisted credential rejected, purged")
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.identity = identity
	s.mu.Unlock()
	s.notify(StateAuthenticated)
	return nil
}

// Login exchanges credentials for a token, persists it, and fetches the
// identity. On rejection nothing is persisted: the store keeps an existing
// authenticated session, or returns to anonymous when there was none.
func (s *Store) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domainErrors.ValidationError{Detail: "email and password must not be empty"}
	}

	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()
	s.notify(StateAuthenticating)

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, s.reject(err)
	}

	s.mu.Lock()
	s.token = token
	s.holder.Set(token)
	s.mu.Unlock()

	identity, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.purge()
		s.notify(StateAnonymous)
		return nil, err
	}

	if err := s.creds.Save(token); err != nil {
		s.logger.Error("persisting credential failed", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.identity = identity
	s.mu.Unlock()
	s.notify(StateAuthenticated)
	return identity, nil
}

// Signup registers the identity server-side, then performs the login flow
// with the same credentials.
func (s *Store) Signup(ctx context.Context, name, email, password string) (*model.Identity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, domainErrors.ValidationError{Detail: "name, email and password must not be empty"}
	}

	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()
	s.notify(StateAuthenticating)

	if _, err := s.api.Signup(ctx, name, email, password); err != nil {
		return nil, s.reject(err)
	}
	return s.Login(ctx, email, password)
}

// Logout purges the credential and clears the identity.
func (s *Store) Logout() {
	s.purge()
	s.notify(StateAnonymous)
}

// Invalidate is the shared unauthorized path: any authenticated request that
// came back 401/403 routes here. Idempotent.
func (s *Store) Invalidate() {
	s.mu.Lock()
	wasAnonymous := s.state == StateAnonymous && s.token == ""
	s.mu.Unlock()
	if wasAnonymous {
		return
	}
	s.logger.Info("credential invalidated by backend")
	s.purge()
	s.notify(StateAnonymous)
}

// reject surfaces a login/signup failure. The rejected state is observable to
// listeners, then the store settles: back to authenticated when a prior
// session survived the attempt untouched, to anonymous otherwise. A failed
// re-login must not tear down a credential the backend still accepts.
func (s *Store) reject(cause error) error {
	s.mu.Lock()
	s.state = StateRejected
	s.mu.Unlock()
	s.notify(StateRejected)

	s.mu.Lock()
	settled := StateAnonymous
	if s.token != "" && s.identity != nil {
		settled = StateAuthenticated
	}
	s.state = settled
	s.mu.Unlock()
	s.notify(settled)
	return cause
}

func (s *Store) purge() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.token = ""
	s.identity = nil
	s.holder.Clear()
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		s.logger.Error("clearing persisted credential failed", slog.String("error", err.Error()))
	}
}

// notify runs outside the store lock so listeners may call back in.
func (s *Store) notify(state State) {
	s.listenerMu.Lock()
	ids := make([]int64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	s.listenerMu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		s.listenerMu.Lock()
		fn, ok := s.listeners[id]
		s.listenerMu.Unlock()
		if ok {
			fn(state)
		}
	}
}
