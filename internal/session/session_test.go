package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSession_LoginPersistsAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.LoggedIn() {
		t.Fatalf("fresh session reports logged in")
	}

	user := User{Email: "anita@example.org", FullName: "Anita Rao", Role: "ngo"}
	if err := s.Login("tok-abc", user); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if s.Token() != "tok-abc" {
		t.Fatalf("Token = %q, want tok-abc", s.Token())
	}

	// The credential file must be owner-only.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if reopened.Token() != "tok-abc" {
		t.Fatalf("reopened Token = %q, want tok-abc", reopened.Token())
	}
	got, ok := reopened.User()
	if !ok || got != user {
		t.Fatalf("reopened User = %#v, %v; want %#v, true", got, ok, user)
	}
}

func TestSession_LogoutClearsStateAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Login("tok-abc", User{Email: "x@example.org"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	s.Logout()
	if s.LoggedIn() {
		t.Fatalf("LoggedIn = true after Logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file survived Logout: %v", err)
	}
	// Logging out twice is fine.
	s.Logout()
}

func TestSession_OpenToleratesMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Open(missing) returned error: %v", err)
	}
	if s.LoggedIn() {
		t.Fatalf("missing file produced a logged-in session")
	}

	corrupt := filepath.Join(dir, "corrupt.toml")
	if err := os.WriteFile(corrupt, []byte("{{{not toml"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	s, err = Open(corrupt)
	if err != nil {
		t.Fatalf("Open(corrupt) returned error: %v", err)
	}
	if s.LoggedIn() {
		t.Fatalf("corrupt file produced a logged-in session")
	}
}

func TestSession_Expired(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"no token", "", true},
		{"garbage", "not-a-jwt", true},
		{"past exp", "", true},   // filled below
		{"future exp", "", false},
		{"no exp claim", "", false},
	}

	s := &Session{path: filepath.Join(t.TempDir(), "session.toml")}
	tests[2].token = signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	tests[3].token = signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	tests[4].token = signedToken(t, jwt.MapClaims{"sub": "42"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.mu.Lock()
			s.token = tt.token
			s.mu.Unlock()
			if got := s.Expired(); got != tt.want {
				t.Fatalf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_NotifyIsBestEffort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	s.SetNotify(func(User) {
		defer wg.Done()
		panic("secondary backend down")
	})

	// A panicking notify must not fail or block the login.
	if err := s.Login("tok-abc", User{Email: "x@example.org"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	wg.Wait()
	if !s.LoggedIn() {
		t.Fatalf("login lost despite notify being best-effort")
	}
}
