// Package session handles the persisted authentication session.
// The session lives in ~/.config/ladle/session.toml: created at app start
// from disk, mutated only by Login and Logout, read by the API client on
// every call.
package session

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"
)

const defaultSessionPath = "~/.config/ladle/session.toml"

// User is the subset of the account profile the session keeps.
type User struct {
	Email    string `toml:"email"`
	FullName string `toml:"full_name"`
	Role     string `toml:"role"`
}

type persisted struct {
	Token string `toml:"token"`
	User  User   `toml:"user"`
}

// Session owns the process-wide bearer token. It implements
// annapurna.TokenSource, so the client reads the current token at call time;
// a Login or Logout between two calls takes effect on the very next request.
type Session struct {
	path string

	mu    sync.RWMutex
	token string
	user  User

	// notify is a best-effort secondary action fired after a successful
	// Login (the platform mirrors profiles into the realtime backend).
	// It runs in its own goroutine; failures are logged and never block
	// or fail the login itself.
	notify func(User)
}

// Open loads the session from path, falling back to the default location
// when path is empty. A missing file yields a logged-out session.
func Open(path string) (*Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	s := &Session{path: resolved}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var p persisted
	if err := toml.Unmarshal(raw, &p); err != nil {
		// A corrupt session file is not fatal; start logged out.
		log.Printf("session: ignoring unparseable %s: %v", resolved, err)
		return s, nil
	}
	s.token = strings.TrimSpace(p.Token)
	s.user = p.User
	return s, nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user, and false when logged out.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// LoggedIn reports whether a token is held. It says nothing about validity;
// see Expired.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

/// Expired reports whether the held token is unusable: absent, malformed, or
// past its exp claim. The claim is read without signature verification —
// the client has no signing key and the server re-checks anyway; this only
// spares a guaranteed 401 round trip.
func (s *Session) Expired() bool {
	token := s.Token()
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No exp claim: treat as non-expiring.
		return false
	}
	return exp.Before(time.Now())
}

// SetNotify installs the best-effort post-login action.
func (s *Session) SetNotify(fn func(User)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Login swaps in the new token and persists it. The notify side channel, if
// configured, is fired asynchronously and cannot fail the login.
func (s *Session) Login(token string, user User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty token")
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	notify := s.notify
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return err
	}

	if notify != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("session: login notify panicked: %v", r)
				}
			}()
			notify(user)
		}()
	}
	return nil
}

// Logout clears the session in memory and best-effort removes the file.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = User{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("session: remove %s: %v", s.path, err)
	}
}

func (s *Session) save() error {
	s.mu.RLock()
	p := persisted{Token: s.token, User: s.user}
	s.mu.RUnlock()

	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	// The file holds a credential; keep it owner-only.
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
