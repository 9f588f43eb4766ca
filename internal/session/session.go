// Package session keeps the signed-in user and bearer token of one browser.
//
// The token is the only persisted piece; the user is re-fetched from the
// profile endpoint whenever a session is initialised.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blogfront/internal/apperr"
	"blogfront/internal/models"
)

type Session struct {
	Token string
	User  *models.User
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil
}

func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == models.RoleAdmin
}

// TokenStore persists the token between requests, a cookie in production.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// UserAPI is the part of the user service the session needs.
type UserAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.JwtResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	RegisterAdmin(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.User, error)
}

type Manager struct {
	users     UserAPI
	secretKey string
	now       func() time.Time
}

// NewManager builds a Manager. With a non-empty secretKey tokens are verified
// as HS256 before use; otherwise only their expiry is checked.
func NewManager(users UserAPI, secretKey string) *Manager {
	return &Manager{users: users, secretKey: secretKey, now: time.Now}
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext never returns nil; a request without a session gets an
// anonymous one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

// ContextTokens feeds the API client with the token of the session carried
// by the request context.
type ContextTokens struct{}

func (ContextTokens) Token(ctx context.Context) string {
	return FromContext(ctx).Token
}

// Init restores the session from store. A token that is expired, malformed or
// rejected by the profile endpoint is cleared and an anonymous session is
// returned; only a failure to reach the backend is reported as an error.
func (m *Manager) Init(ctx context.Context, store TokenStore) (*Session, error) {
	token, err := store.Load()
	if err != nil || token == "" {
		return &Session{}, nil
	}

	if err := m.checkToken(token); err != nil {
		log.Printf("session: discarding stored token: %v", err)
		_ = store.Clear()
		return &Session{}, nil
	}

	s := &Session{Token: token}
	user, err := m.users.Profile(NewContext(ctx, s))
	if err != nil {
		if apperr.Is(err, apperr.Auth) || apperr.Is(err, apperr.NotFound) {
			log.Printf("session: profile rejected stored token: %v", err)
			_ = store.Clear()
			return &Session{}, nil
		}
		return &Session{}, fmt.Errorf("failed to get user profile: %w", err)
	}

	s.User = user
	return s, nil
}

func (m *Manager) Login(ctx context.Context, store TokenStore, req models.LoginRequest) (*Session, error) {
	resp, err := m.users.Login(ctx, req)
	if err != nil {
		if apperr.Is(err, apperr.Auth) {
			return nil, apperr.Wrap(apperr.Auth, "session.login", err, "Invalid username or password")
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, apperr.New(apperr.Remote, "session.login", "Login response did not contain a token")
	}

	s := &Session{Token: resp.Token}
	user, err := m.users.Profile(NewContext(ctx, s))
	if err != nil {
		return nil, err
	}
	s.User = user

	if err := store.Save(resp.Token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	return s, nil
}

func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return m.users.Register(ctx, req)
}

// RegisterAdmin is only reachable from the admin dashboard; the backend
// enforces the role on its side as well.
func (m *Manager) RegisterAdmin(ctx context.Context, s *Session, req models.RegisterRequest) (*models.User, error) {
	if !s.IsAdmin() {
		return nil, apperr.New(apperr.Auth, "session.registerAdmin", "Admin access required")
	}
	return m.users.RegisterAdmin(NewContext(ctx, s), req)
}

// Logout forgets both the token and the in-memory user.
func (m *Manager) Logout(store TokenStore, s *Session) error {
	if s != nil {
		s.Token = ""
		s.User = nil
	}
	return store.Clear()
}

func (m *Manager) Refresh(ctx context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return apperr.New(apperr.Auth, "session.refresh", "Please log in")
	}
	user, err := m.users.Profile(NewContext(ctx, s))
	if err != nil {
		return err
	}
	s.User = user
	return nil
}

func (m *Manager) UpdateProfile(ctx context.Context, s *Session, req models.ProfileUpdate) error {
	if !s.IsAuthenticated() {
		return apperr.New(apperr.Auth, "session.updateProfile", "Please log in")
	}
	user, err := m.users.UpdateProfile(NewContext(ctx, s), req)
	if err != nil {
		return err
	}
	if user != nil && user.Username != "" {
		s.User = user
		return nil
	}
	return m.Refresh(ctx, s)
}

func (m *Manager) checkToken(token string) error {
	token = strings.TrimPrefix(token, "Bearer ")

	var (
		parsed *jwt.Token
		err    error
	)
	if m.secretKey != "" {
		parsed, err = jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(m.secretKey), nil
		}, jwt.WithTimeFunc(m.now))
		if err != nil {
			return fmt.Errorf("invalid token: %w", err)
		}
	} else {
		parsed, _, err = jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
		if err != nil {
			return fmt.Errorf("malformed token: %w", err)
		}
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("bad exp claim: %w", err)
	}
	if exp != nil && !exp.After(m.now()) {
		return errors.New("token expired")
	}
	return nil
}
