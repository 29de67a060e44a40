package annapurna

import (
	"testing"
	"time"
)

func TestStatus_Terminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, false},
		{StatusAssigned, false},
		{StatusPickedUp, false},
		{StatusInTransit, false},
		{StatusDelivered, true},
		{StatusCancelled, true},
		{StatusExpired, true},
		{Status("bogus"), false},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("Terminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseTime_AcceptsAPIFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		zero  bool
	}{
		{"rfc3339", "2026-03-01T10:30:00Z", false},
		{"rfc3339 nano", "2026-03-01T10:30:00.123456Z", false},
		{"naive iso", "2026-03-01T10:30:00", false},
		{"empty", "", true},
		{"garbage", "yesterday-ish", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTime(tt.value)
			if got.IsZero() != tt.zero {
				t.Fatalf("parseTime(%q) = %v, zero = %v, want zero = %v", tt.value, got, got.IsZero(), tt.zero)
			}
			if !tt.zero {
				want := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
				if !got.Truncate(time.Second).Equal(want) {
					t.Fatalf("parseTime(%q) = %v, want %v", tt.value, got, want)
				}
			}
		})
	}
}
