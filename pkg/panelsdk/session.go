package panelsdk

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// DefaultRefreshInterval renews the access token ahead of its 15 minute
// lifetime.
const DefaultRefreshInterval = 14 * time.Minute

// State is the session lifecycle state.
type State int

const (
	// StateUnknown means no refresh has completed yet.
	StateUnknown State = iota
	// StateRefreshing means the initial token exchange is in flight.
	StateRefreshing
	// StateAuthenticated means a valid access token is held in memory.
	StateAuthenticated
	// StateAnonymous means there is no usable session.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateRefreshing:
		return "refreshing"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// User is the profile attached to an authenticated session.
type User struct {
	ID            string `json:"id"`
	FullName      string `json:"fullname"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

type tokenEnvelope struct {
	Data struct {
		AccessToken string `json:"accessToken"`
		User        User   `json:"user"`
	} `json:"data"`
}

// Session holds the in-memory access token and drives the refresh loop.
// All mutations are serialized; a result from an operation that started
// before a later mutation is discarded rather than applied.
type Session struct {
	client   *Client
	interval time.Duration

	mu          sync.Mutex
	state       State
	accessToken string
	user        *User
	epoch       uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRefreshInterval overrides the background refresh cadence.
func WithRefreshInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewSession creates a Session bound to the given client. The session starts
// in StateUnknown; call Start or Refresh to establish it.
func NewSession(c *Client, opts ...SessionOption) *Session {
	s := &Session{
		client:   c,
		interval: DefaultRefreshInterval,
		state:    StateUnknown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the in-memory access token, or "" when not authenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// User returns a copy of the authenticated profile, or nil.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Start runs an immediate refresh and then keeps the access token renewed on
// a ticker until Close is called or ctx is cancelled. Calling Start twice is
// a no-op.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx)
}

// Close stops the background refresher and waits for it to exit.
func (s *Session) Close() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	s.Refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh exchanges the refresh cookie for a new access token. On success
// the token and profile are replaced; on any failure the session clears to
// StateAnonymous. Errors are not returned; the outcome is the new state.
// A refresh that resolves after a later login or logout is discarded.
func (s *Session) Refresh(ctx context.Context) State {
	s.mu.Lock()
	start := s.epoch
	if s.state != StateAuthenticated {
		s.state = StateRefreshing
	}
	s.mu.Unlock()

	var envelope tokenEnvelope
	req, err := s.client.newRequest(ctx, http.MethodPost, "/api/users/refresh-token", nil)
	if err == nil {
		err = s.client.do(req, &envelope)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != start {
		// Stale result from before a login or logout.
		return s.state
	}
	s.epoch++

	if err != nil || envelope.Data.AccessToken == "" {
		s.clearLocked()
		return s.state
	}

	s.accessToken = envelope.Data.AccessToken
	user := envelope.Data.User
	s.user = &user
	s.state = StateAuthenticated
	return s.state
}

// Login asks the backend to email a one-time login link. It never yields a
// session directly; the link token goes through MagicLogin.
func (s *Session) Login(ctx context.Context, email, password string) error {
	req, err := s.client.newRequest(ctx, http.MethodPost, "/api/users/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	return s.client.do(req, nil)
}

// MagicLogin exchanges a one-time login link token for a session. On any
// failure, including a response without an access token, the session is
// left untouched.
func (s *Session) MagicLogin(ctx context.Context, validationID string) error {
	req, err := s.client.newRequest(ctx, http.MethodGet, "/api/users/login-verify/"+url.PathEscape(validationID), nil)
	if err != nil {
		return err
	}

	var envelope tokenEnvelope
	if err := s.client.do(req, &envelope); err != nil {
		return err
	}
	if envelope.Data.AccessToken == "" {
		return errors.New("panelsdk: login response missing access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.accessToken = envelope.Data.AccessToken
	user := envelope.Data.User
	s.user = &user
	s.state = StateAuthenticated
	return nil
}

// Logout notifies the backend, then clears the session unconditionally.
// A failed notification still results in StateAnonymous.
func (s *Session) Logout(ctx context.Context) {
	req, err := s.client.newRequest(ctx, http.MethodPost, "/api/users/logout", nil)
	if err == nil {
		_ = s.client.do(req, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.accessToken = ""
	s.user = nil
	s.state = StateAnonymous
}

// NewRequest builds a request against the backend with the bearer token
// attached when one is held.
func (s *Session) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.client.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if tok := s.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// Do sends a request through the underlying client, carrying cookies.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	return s.client.http.Do(req)
}
