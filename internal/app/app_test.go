package app

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shahnoor-exe/ladle/internal/livestore"
	"github.com/shahnoor-exe/ladle/internal/session"
)

func TestRedirectLogCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ladle.log")

	closeLog, err := redirectLog(path)
	if err != nil {
		t.Fatalf("redirectLog: %v", err)
	}
	defer func() {
		log.SetOutput(os.Stderr)
	}()

	log.Printf("marker line")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty, want the marker line")
	}
}

func TestMirrorSessionPublishesLoginToStore(t *testing.T) {
	sess, err := session.Open(filepath.Join(t.TempDir(), "session.toml"))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	store := livestore.New()
	mirrorSession(sess, store)

	user := session.User{
		Email:    "meera@annakshetra.org",
		FullName: "Meera Joshi",
		Role:     "volunteer",
	}
	if err := sess.Login("tok-abc", user); err != nil {
		t.Fatalf("login: %v", err)
	}

	// The notify hook runs on its own goroutine; poll for the write.
	var doc *livestore.Document
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if doc = store.Document("users", user.Email); doc != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if doc == nil {
		t.Fatal("login never reached the users collection")
	}
	if got := doc.Fields["full_name"]; got != "Meera Joshi" {
		t.Errorf("full_name = %v, want Meera Joshi", got)
	}
	if got := doc.Fields["role"]; got != "volunteer" {
		t.Errorf("role = %v, want volunteer", got)
	}
	if got := doc.Fields["online"]; got != true {
		t.Errorf("online = %v, want true", got)
	}
}

func TestRedirectLogEmptyPathIsNoop(t *testing.T) {
	closeLog, err := redirectLog("")
	if err != nil {
		t.Fatalf("redirectLog(\"\"): %v", err)
	}
	closeLog()
	log.SetOutput(os.Stderr)
}
