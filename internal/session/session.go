// Package session tracks the authenticated user and the bearer token
// issued by the banking API, including token expiry checks.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bankdg/internal/core"
)

// ErrExpired is returned when the stored token's exp claim has passed
// and the user must log in again.
var ErrExpired = errors.New("session: token expired")

// ErrNoSession is returned when no login has happened yet.
var ErrNoSession = errors.New("session: not authenticated")

// Session holds the logged-in user and their API token. It implements
// rest.TokenSource so the HTTP client can attach the bearer header.
type Session struct {
	mu    sync.RWMutex
	user  core.User
	token string
	exp   time.Time
	now   func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// Start records a fresh login. The token is parsed without signature
// verification only to extract the exp claim; the backend remains the
// authority on token validity.
func (s *Session) Start(user core.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.exp = tokenExpiry(token)
}

// Token returns the current bearer token, or the empty string when no
// session is active.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user. ErrExpired is returned once the
// token's exp claim has passed; callers should redirect to login.
func (s *Session) User() (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return core.User{}, ErrNoSession
	}
	if !s.exp.IsZero() && s.now().After(s.exp) {
		return core.User{}, ErrExpired
	}
	return s.user, nil
}

// Active reports whether a non-expired session exists.
func (s *Session) Active() bool {
	_, err := s.User()
	return err == nil
}

// End clears the session state.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = core.User{}
	s.token = ""
	s.exp = time.Time{}
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Opaque tokens (fixtures) yield a zero time, which means
// no local expiry is enforced.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
