// Package session persists the signed-in user's bearer token and role
// between CLI invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"smart-restaurant/api"
)

const sessionFile = "session.json"

// Session is what survives between invocations: the bearer token plus
// the role tag the login response reported.
type Session struct {
	Token   string       `json:"token"`
	Role    api.UserRole `json:"role"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	SavedAt time.Time    `json:"saved_at"`
}

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("session: not signed in")

// Store reads and writes the session file under a fixed directory.
type Store struct {
	dir string
}

// DefaultStore places the session under the user config directory
// (~/.config/smart-restaurant on Linux).
func DefaultStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("session: resolve config dir: %w", err)
	}
	return NewStore(filepath.Join(base, "smart-restaurant")), nil
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, sessionFile)
}

// Save writes the session to disk, creating the directory if needed.
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	sess.SavedAt = time.Now().UTC()
	buf, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.WriteFile(s.path(), buf, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// Load reads the stored session. An expired token counts as no session
// and clears the file, so a stale login never silently reuses a dead
// token.
func (s *Store) Load() (Session, error) {
	buf, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: read: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(buf, &sess); err != nil {
		return Session{}, fmt.Errorf("session: decode: %w", err)
	}
	if sess.Token == "" {
		return Session{}, ErrNoSession
	}
	if Expired(sess.Token) {
		_ = s.Clear()
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Clear removes the stored session (logout).
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Expired inspects the token's exp claim without verifying the
// signature; the client does not hold the server's signing secret, it
// only needs to know whether a round trip is worth attempting.
func Expired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
