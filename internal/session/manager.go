package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
)

// Authenticator the part of the gateway the session needs
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	Me(ctx context.Context) (*model.Identity, error)
}

// ==================== Manager ====================

// Manager owns the active Context and keeps it in the session store under the "current user" key.
// It is also the token source of the gateway client, so requests always carry the active token.
type Manager struct {
	repo repository.SessionRepository
	log  *zap.Logger
	now  func() time.Time

	mu      sync.RWMutex
	current *Context
}

// NewManager starts logged out
func NewManager(repo repository.SessionRepository, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{repo: repo, log: log.Named("session"), now: time.Now}
}

// Current the active context, nil when logged out
func (m *Manager) Current() *Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// AccessToken token of the active context
func (m *Manager) AccessToken() string {
	return m.Current().AccessToken()
}

// Login authenticates, activates and persists the new context
func (m *Manager) Login(ctx context.Context, auth Authenticator, username, password string) (*Context, error) {
	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sc := New(resp.User, resp.Access, resp.Refresh)
	if err := m.persist(ctx, sc); err != nil {
		return nil, err
	}
	m.activate(sc)

	m.log.Info("logged in", zap.String("username", resp.User.Username), zap.String("role", string(resp.User.Role)))
	return sc, nil
}

// Restore reactivates the stored session. ErrNoSession when nothing is stored, ErrSessionExpired
// when the stored access token has run out; an expired session is removed from the store.
func (m *Manager) Restore(ctx context.Context) (*Context, error) {
	stored, err := m.repo.Get(ctx, model.SessionKeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored == nil || stored.AccessToken == "" {
		return nil, ErrNoSession
	}

	var identity model.Identity
	if err := json.Unmarshal([]byte(stored.Identity), &identity); err != nil {
		m.log.Warn("stored identity unreadable, discarding", zap.Error(err))
		_ = m.repo.Delete(ctx, model.SessionKeyCurrentUser)
		return nil, ErrNoSession
	}

	exp, err := middleware.TokenExpiry(stored.AccessToken)
	if err != nil {
		m.log.Warn("stored token unreadable, discarding", zap.Error(err))
		_ = m.repo.Delete(ctx, model.SessionKeyCurrentUser)
		return nil, ErrNoSession
	}
	if !exp.IsZero() && !m.now().Before(exp) {
		_ = m.repo.Delete(ctx, model.SessionKeyCurrentUser)
		return nil, ErrSessionExpired
	}

	sc := New(&identity, stored.AccessToken, stored.RefreshToken)
	m.activate(sc)
	return sc, nil
}

// Reload asks the API for the current identity and replaces the active context with it
func (m *Manager) Reload(ctx context.Context, auth Authenticator) (*Context, error) {
	cur := m.Current()
	if !cur.Authenticated() {
		return nil, ErrNoSession
	}

	identity, err := auth.Me(ctx)
	if err != nil {
		return nil, err
	}

	sc := New(identity, cur.AccessToken(), cur.RefreshToken())
	if err := m.persist(ctx, sc); err != nil {
		return nil, err
	}
	m.activate(sc)
	return sc, nil
}

// Logout clears the active context and the stored session
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.current != nil {
		m.current.Clear()
		m.current = nil
	}
	m.mu.Unlock()

	if err := m.repo.Delete(ctx, model.SessionKeyCurrentUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.log.Info("logged out")
	return nil
}

func (m *Manager) activate(sc *Context) {
	m.mu.Lock()
	m.current = sc
	m.mu.Unlock()
}

func (m *Manager) persist(ctx context.Context, sc *Context) error {
	raw, err := json.Marshal(sc.Identity())
	if err != nil {
		return err
	}
	err = m.repo.Save(ctx, &model.StoredSession{
		Key:          model.SessionKeyCurrentUser,
		Identity:     string(raw),
		AccessToken:  sc.AccessToken(),
		RefreshToken: sc.RefreshToken(),
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

var (
	ErrNoSession      = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired, log in again")
)
