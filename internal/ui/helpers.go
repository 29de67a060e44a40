package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
)

// statusLabel renders a status for display: "picked_up" becomes "Picked Up".
func statusLabel(s annapurna.Status) string {
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// statusRank orders the delivery lifecycle for the tracking progress rail.
// Terminal failure states and unknown statuses rank -1.
func statusRank(s annapurna.Status) int {
	switch s {
	case annapurna.StatusPending:
		return 0
	case annapurna.StatusAssigned:
		return 1
	case annapurna.StatusPickedUp:
		return 2
	case annapurna.StatusInTransit:
		return 3
	case annapurna.StatusDelivered:
		return 4
	}
	return -1
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

// formatKG trims trailing zeros so "18.00" reads as "18 kg".
func formatKG(kg float64) string {
	s := fmt.Sprintf("%.1f", kg)
	s = strings.TrimSuffix(s, ".0")
	return s + " kg"
}

func formatCount(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%.1fk", float64(n)/1000)
}

func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// progressBar renders a fixed-width bar for a 0..1 fraction.
func progressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
