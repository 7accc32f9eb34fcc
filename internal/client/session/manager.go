// Package session owns the client's authentication state: login, logout,
// silent token refresh, and session restore on startup. The Manager is
// the sole writer of the Session value and of the credential store.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/catclub/catclub/internal/client/api"
	"github.com/catclub/catclub/internal/client/credentials"
	"github.com/catclub/catclub/internal/client/models"
	"github.com/catclub/catclub/internal/logging"
)

// Session is the client's belief about its authentication status.
//
// Authenticated is true only when Token was validated against
// GET /users/me at least once since it was set, and then User is present.
type Session struct {
	Authenticated bool
	Token         string
	User          *models.User
}

// Manager drives the session lifecycle. All mutation goes through it;
// consumers read snapshots via Current or watch changes via Subscribe.
type Manager struct {
	client *api.Client
	creds  credentials.Store
	log    logging.Logger

	mu      sync.RWMutex
	current Session
	subs    map[int]func(Session)
	nextSub int

	// Concurrent 401 episodes share one in-flight refresh.
	refreshing singleflight.Group
}

func NewManager(client *api.Client, creds credentials.Store, log logging.Logger) *Manager {
	return &Manager{
		client: client,
		creds:  creds,
		log:    log,
		subs:   make(map[int]func(Session)),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and validates it by fetching the
// user profile. A token alone is never a valid session: if the profile
// fetch fails, the whole login fails and the session stays Anonymous.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}

	// Fail-closed ordering: drop the existing session and persisted token
	// before the exchange so a stale token cannot be used while the new
	// login is pending.
	m.reset(ctx)

	body, err := m.client.DoJSON(ctx, http.MethodPost, "/users/login", loginRequest{username, password}, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	token, err := ExtractToken(body)
	if err != nil {
		return err
	}

	user, err := m.fetchProfile(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	if err := m.creds.Set(ctx, token); err != nil {
		// The session still works for this run; it just won't survive a
		// restart.
		m.log.Warn(ctx, "failed to persist token", "error", err)
	}

	m.setSession(Session{Authenticated: true, Token: token, User: &user})
	m.log.Info(ctx, "logged in", "user", user.Username)
	return nil
}

// Register creates a new account. It does not log the user in.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	_, err := m.client.DoJSON(ctx, http.MethodPost, "/users/register",
		registerRequest{Username: username, Email: email, Password: password}, "")
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Logout clears the session and the persisted token. No network call;
// always succeeds.
func (m *Manager) Logout() {
	m.reset(context.Background())
	m.log.Info(context.Background(), "logged out")
}

// Refresh exchanges the server-side refresh credential (a cookie set at
// login) for a new access token. On success the token is replaced and the
// user left untouched; on any failure the session is unchanged and the
// caller decides whether to force a logout.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, _ := m.refreshing.Do("refresh", func() (any, error) {
		return nil, m.doRefresh(ctx)
	})
	return err
}

func (m *Manager) doRefresh(ctx context.Context) error {
	body, err := m.client.DoJSON(ctx, http.MethodPost, "/users/refresh", nil, "")
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}

	token, err := ExtractToken(body)
	if err != nil {
		return err
	}

	if err := m.creds.Set(ctx, token); err != nil {
		m.log.Warn(ctx, "failed to persist refreshed token", "error", err)
	}

	m.mu.Lock()
	m.current.Token = token
	snapshot := m.current
	m.mu.Unlock()
	m.notify(snapshot)

	m.log.Debug(ctx, "token refreshed")
	return nil
}

// Restore rebuilds the session from the persisted token at startup: one
// validation pass, and on a 401 at most one refresh followed by one more
// pass. The explicit bound keeps restore from looping against a server
// that always answers 401.
func (m *Manager) Restore(ctx context.Context) error {
	stored, err := m.creds.Get(ctx)
	if err != nil {
		m.reset(ctx)
		return fmt.Errorf("reading stored token: %w", err)
	}
	if stored == "" {
		m.setSession(Session{})
		return ErrNoStoredToken
	}
	token := NormalizeToken(stored)
	if token == "" {
		m.reset(ctx)
		return ErrNoStoredToken
	}

	for attempt := 0; ; attempt++ {
		user, err := m.fetchProfile(ctx, token)
		if err == nil {
			m.setSession(Session{Authenticated: true, Token: token, User: &user})
			m.log.Info(ctx, "session restored", "user", user.Username)
			return nil
		}
		if attempt == 0 && errors.Is(err, api.ErrUnauthorized) {
			if rerr := m.Refresh(ctx); rerr == nil {
				token = m.Token()
				continue
			}
		}
		m.reset(ctx)
		return fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
}

func (m *Manager) fetchProfile(ctx context.Context, token string) (models.User, error) {
	body, err := m.client.Do(ctx, http.MethodGet, "/users/me", nil, "", token)
	if err != nil {
		return models.User{}, err
	}
	user, err := api.DecodeObject[models.User](body)
	if err != nil {
		return models.User{}, err
	}
	if user.ID == "" {
		return models.User{}, fmt.Errorf("%w: user object without id", api.ErrMalformedResponse)
	}
	return user, nil
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.current
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// CurrentUser returns the authenticated user, if any.
func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.current.Authenticated || m.current.User == nil {
		return models.User{}, false
	}
	return *m.current.User, true
}

// Subscribe registers fn to be called with a session snapshot after every
// state change. The returned func removes the subscription.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) setSession(s Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	m.notify(s)
}

// reset returns the session to Anonymous and clears the persisted token.
func (m *Manager) reset(ctx context.Context) {
	if err := m.creds.Clear(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear stored token", "error", err)
	}
	m.setSession(Session{})
}

func (m *Manager) notify(s Session) {
	m.mu.RLock()
	fns := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(s)
	}
}
