package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
	"github.com/shahnoor-exe/ladle/internal/livestore"
	"github.com/shahnoor-exe/ladle/internal/telemetry"
	"github.com/shahnoor-exe/ladle/internal/watch"
)

// driverPosition is the latest telemetry reading shown on the tracking view.
type driverPosition struct {
	Lat      float64
	Lng      float64
	Heading  float64
	SpeedKMH float64
	Progress float64
	At       time.Time
}

// trackPage follows a single order until it reaches a terminal status. The
// order itself comes from the polling watcher; the driver position arrives
// through the livestore subscription, so positions update even between
// status polls.
type trackPage struct {
	order   annapurna.Order
	watcher *watch.Watcher[annapurna.Order]
	unsub   func()

	mu     sync.Mutex
	latest annapurna.Order
	pos    *driverPosition
}

func newTrackPage(ctx context.Context, client annapurna.Fetcher, store *livestore.Store, order annapurna.Order, interval time.Duration) *trackPage {
	p := &trackPage{order: order, latest: order}

	p.watcher = watch.Start(ctx, watch.Config[annapurna.Order]{
		Interval: interval,
		Fetch: func(ctx context.Context) (annapurna.Order, error) {
			o, err := client.Order(ctx, order.ID)
			if err != nil {
				return annapurna.Order{}, err
			}
			return *o, nil
		},
		Terminal: func(o annapurna.Order) bool { return o.Status.Terminal() },
		OnUpdate: func(o annapurna.Order) {
			p.mu.Lock()
			p.latest = o
			p.mu.Unlock()
		},
	})

	p.unsub = store.SubscribeCollection(telemetry.Collection,
		func(doc livestore.Document) bool { return matchesOrder(doc.Fields, order.ID) },
		func(docs []livestore.Document) {
			if len(docs) == 0 {
				return
			}
			// Newest write wins when several drivers report for the order.
			newest := docs[0]
			for _, d := range docs[1:] {
				if d.UpdatedAt.After(newest.UpdatedAt) {
					newest = d
				}
			}
			pos := positionFromFields(newest.Fields, newest.UpdatedAt)
			p.mu.Lock()
			p.pos = &pos
			p.mu.Unlock()
		})

	return p
}

func (p *trackPage) close() {
	p.watcher.Stop()
	p.unsub()
}

// matchesOrder compares the telemetry order_id field against an order ID.
// Local writes carry an int64; documents replayed through the broker carry
// a float64 from the JSON round trip.
func matchesOrder(fields map[string]any, id int64) bool {
	switch v := fields["order_id"].(type) {
	case int64:
		return v == id
	case float64:
		return int64(v) == id
	case int:
		return int64(v) == id
	}
	return false
}

func positionFromFields(fields map[string]any, at time.Time) driverPosition {
	num := func(key string) float64 {
		if v, ok := fields[key].(float64); ok {
			return v
		}
		return 0
	}
	return driverPosition{
		Lat:      num("lat"),
		Lng:      num("lng"),
		Heading:  num("heading"),
		SpeedKMH: num("speed_kmh"),
		Progress: num("progress"),
		At:       at,
	}
}

var railStatuses = []annapurna.Status{
	annapurna.StatusPending,
	annapurna.StatusAssigned,
	annapurna.StatusPickedUp,
	annapurna.StatusInTransit,
	annapurna.StatusDelivered,
}

func (p *trackPage) view(theme Theme, width int) string {
	p.mu.Lock()
	order := p.latest
	pos := p.pos
	p.mu.Unlock()

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Tracking Order #%d", order.ID)))
	b.WriteString("\n\n")
	b.WriteString(theme.Value.Render(truncate(order.FoodDescription, 60)))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render(order.RestaurantName))
	if order.NGOName != "" {
		b.WriteString(theme.Dim.Render("  →  "))
		b.WriteString(theme.Label.Render(order.NGOName))
	}
	b.WriteString("\n\n")

	// Status rail.
	rank := statusRank(order.Status)
	switch order.Status {
	case annapurna.StatusCancelled, annapurna.StatusExpired:
		b.WriteString(theme.Error.Render(statusLabel(order.Status)))
	default:
		var rail []string
		for i, s := range railStatuses {
			label := statusLabel(s)
			switch {
			case i < rank:
				rail = append(rail, theme.Accent.Render(label))
			case i == rank:
				rail = append(rail, theme.StatusStyle(s).Bold(true).Render("● "+label))
			default:
				rail = append(rail, theme.Dim.Render(label))
			}
		}
		b.WriteString(strings.Join(rail, theme.Dim.Render(" ── ")))
	}
	b.WriteString("\n\n")

	if order.DriverName != "" {
		b.WriteString(theme.Label.Render("Driver  "))
		b.WriteString(theme.Value.Render(order.DriverName))
		if order.ETAMinutes > 0 && !order.Status.Terminal() {
			b.WriteString(theme.Dim.Render(fmt.Sprintf("  ETA %dm", order.ETAMinutes)))
		}
		b.WriteString("\n")
	}

	if pos != nil {
		b.WriteString("\n")
		b.WriteString(theme.Header.Render("Live Position"))
		b.WriteString("\n")
		b.WriteString(theme.Value.Render(fmt.Sprintf("%.4f, %.4f", pos.Lat, pos.Lng)))
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  %.0f km/h  heading %.0f°", pos.SpeedKMH, pos.Heading)))
		b.WriteString("\n")
		b.WriteString(theme.Accent.Render(progressBar(pos.Progress, 30)))
		b.WriteString(theme.Dim.Render(fmt.Sprintf(" %3.0f%%", pos.Progress*100)))
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render("seen " + humanizeDuration(time.Since(pos.At)) + " ago"))
		b.WriteString("\n")
	} else if !order.Status.Terminal() {
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render("Waiting for driver position..."))
		b.WriteString("\n")
	}

	select {
	case <-p.watcher.Done():
		if order.Status.Terminal() {
			b.WriteString("\n")
			b.WriteString(theme.Accent.Render("Tracking finished."))
		}
	default:
	}

	b.WriteString("\n")
	b.WriteString(theme.Dim.Render("esc: back to orders"))
	return b.String()
}
