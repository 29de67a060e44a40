package ui

import (
	"testing"
	"time"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status annapurna.Status
		want   string
	}{
		{annapurna.StatusPending, "Pending"},
		{annapurna.StatusPickedUp, "Picked Up"},
		{annapurna.StatusInTransit, "In Transit"},
		{annapurna.StatusDelivered, "Delivered"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusRank(t *testing.T) {
	if statusRank(annapurna.StatusPending) != 0 {
		t.Errorf("pending should rank 0")
	}
	if statusRank(annapurna.StatusDelivered) != 4 {
		t.Errorf("delivered should rank 4")
	}
	if statusRank(annapurna.StatusCancelled) != -1 {
		t.Errorf("cancelled should rank -1")
	}
	if statusRank(annapurna.Status("bogus")) != -1 {
		t.Errorf("unknown statuses should rank -1")
	}
}

func TestHumanizeDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "now"},
		{45 * time.Second, "45s"},
		{3 * time.Minute, "3m"},
		{2 * time.Hour, "2h"},
	}
	for _, tt := range tests {
		if got := humanizeDuration(tt.d); got != tt.want {
			t.Errorf("humanizeDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatKG(t *testing.T) {
	if got := formatKG(18); got != "18 kg" {
		t.Errorf("formatKG(18) = %q, want %q", got, "18 kg")
	}
	if got := formatKG(4.5); got != "4.5 kg" {
		t.Errorf("formatKG(4.5) = %q, want %q", got, "4.5 kg")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer description", 9, "a longer…"},
		{"abc", 0, ""},
		{"abc", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.value, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.value, tt.limit, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(0, 4); got != "░░░░" {
		t.Errorf("progressBar(0, 4) = %q", got)
	}
	if got := progressBar(1, 4); got != "████" {
		t.Errorf("progressBar(1, 4) = %q", got)
	}
	if got := progressBar(0.5, 4); got != "██░░" {
		t.Errorf("progressBar(0.5, 4) = %q", got)
	}
	if got := progressBar(1.7, 4); got != "████" {
		t.Errorf("progressBar clamps above 1: %q", got)
	}
	if got := progressBar(-0.3, 4); got != "░░░░" {
		t.Errorf("progressBar clamps below 0: %q", got)
	}
}
