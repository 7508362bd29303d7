package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lejet/booking-gateway/internal/cache"
	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/upstream"
)

// ErrNoSession means there is no valid authenticated session; the caller
// must send the user to login.
var ErrNoSession = errors.New("no active session")

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.Identity, error)
	Register(ctx context.Context, email, password string, role domain.Role) error
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

type Store interface {
	GetSession(ctx context.Context, id string) (*cache.Session, error)
	SetSession(ctx context.Context, id string, s *cache.Session) error
	DeleteSession(ctx context.Context, id string) error
}

// Manager is the single process-wide identity holder. The bearer token lives
// in the session store so the identity survives page reloads; nothing else
// reads the store directly.
type Manager struct {
	auth  Authenticator
	store Store
}

func NewManager(auth Authenticator, store Store) *Manager {
	return &Manager{auth: auth, store: store}
}

func (m *Manager) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password are required")
	}

	identity, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	if err := m.store.SetSession(ctx, id, &cache.Session{
		Token: identity.Token,
		Email: identity.Email,
		Role:  identity.Role,
	}); err != nil {
		return "", nil, err
	}
	return id, identity, nil
}

// Signup registers the account and immediately logs it in, as the original
// flow does.
func (m *Manager) Signup(ctx context.Context, email, password string, role domain.Role) (string, *domain.Identity, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return "", nil, errors.New("invalid role")
	}

	if err := m.auth.Register(ctx, email, password, role); err != nil {
		return "", nil, err
	}
	return m.Login(ctx, email, password)
}

// Current resolves the session and re-verifies its stored token upstream. A
// rejected token tears the session down, forcing re-authentication.
func (m *Manager) Current(ctx context.Context, sessionID string) (*domain.Identity, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	s, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoSession
	}

	identity, err := m.auth.Verify(ctx, s.Token)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			_ = m.store.DeleteSession(ctx, sessionID)
			return nil, ErrNoSession
		}
		return nil, err
	}
	return identity, nil
}

// Resolve loads the session without the upstream round trip. Used on every
// authenticated request once the session is established.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (*domain.Identity, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	s, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoSession
	}
	return &domain.Identity{Email: s.Email, Role: s.Role, Token: s.Token}, nil
}

// Logout clears both the stored token and the session itself.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.DeleteSession(ctx, sessionID)
}
