// Package session persists the logged-in user between runs. The token and
// the user profile live under two keys that are always written and removed
// together.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// Durable keys
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Session is the authenticated identity. The zero value is "logged out".
type Session struct {
	Token string
	User  *domain.User
}

// Valid reports whether both halves of the session are present
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

// IsAdmin reports whether the session user is an admin
func (s Session) IsAdmin() bool {
	return s.Valid() && s.User.IsAdmin()
}

// Store reads and writes the session through a Backend
type Store struct {
	mu      sync.Mutex
	backend Backend
	cipher  *tokenCipher
	now     func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used for token expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a session store. passphrase keys the token encryption.
func NewStore(backend Backend, passphrase string, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		cipher:  newTokenCipher(passphrase),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists token and user in a single write
func (s *Store) Save(sess Session) error {
	if !sess.Valid() {
		return errors.New(errors.ErrCodeSessionWrite, "session needs both a token and a user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := s.cipher.encrypt(sess.Token)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to encrypt token", err)
	}

	user := *sess.User
	user.Password = ""
	profile, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to encode user", err)
	}

	return s.backend.Write(map[string]string{
		KeyToken: sealed,
		KeyUser:  string(profile),
	})
}

// Load restores the session. A missing half, an expired JWT or a token that
// no longer decrypts yields the zero Session, and the leftovers are cleared.
func (s *Store) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.backend.Read()
	if err != nil {
		return Session{}, err
	}

	sealed, hasToken := values[KeyToken]
	profile, hasUser := values[KeyUser]
	if !hasToken && !hasUser {
		return Session{}, nil
	}
	if !hasToken || !hasUser || sealed == "" || profile == "" {
		return Session{}, s.backend.Write(nil)
	}

	token, err := s.cipher.decrypt(sealed)
	if err != nil {
		return Session{}, s.backend.Write(nil)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(profile), &user); err != nil {
		return Session{}, s.backend.Write(nil)
	}

	if TokenExpired(token, s.now()) {
		return Session{}, s.backend.Write(nil)
	}

	return Session{Token: token, User: &user}, nil
}

// Clear removes both keys
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Write(nil)
}

// TokenExpired reports whether token is a JWT whose exp claim is not after
// now. The signature is not checked; the backend does that. Tokens that are
// not JWTs, or carry no exp, are never considered expired.
func TokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
