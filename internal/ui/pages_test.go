package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
	"github.com/shahnoor-exe/ladle/internal/viewstate"
)

// fakeAPI satisfies annapurna.Fetcher with switchable canned responses.
type fakeAPI struct {
	mu          sync.Mutex
	failing     bool
	leadersDown bool
	jobs        []annapurna.ActiveJob
	orders      []annapurna.Order
	stats       annapurna.ImpactStats
	leaders     []annapurna.LeaderboardEntry
}

var _ annapurna.Fetcher = (*fakeAPI)(nil)

func (f *fakeAPI) fail(failing bool) {
	f.mu.Lock()
	f.failing = failing
	f.mu.Unlock()
}

func (f *fakeAPI) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("api down")
	}
	return nil
}

func (f *fakeAPI) Order(ctx context.Context, id int64) (*annapurna.Order, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, &annapurna.APIError{Status: 404, Detail: "not found"}
}

func (f *fakeAPI) Orders(ctx context.Context, q annapurna.OrderQuery) ([]annapurna.Order, error) {
	return f.MyOrders(ctx)
}

func (f *fakeAPI) MyOrders(ctx context.Context) ([]annapurna.Order, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]annapurna.Order(nil), f.orders...), nil
}

func (f *fakeAPI) ImpactDashboard(ctx context.Context) (*annapurna.ImpactStats, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := f.stats
	return &stats, nil
}

func (f *fakeAPI) Leaderboard(ctx context.Context, metric string, limit int) ([]annapurna.LeaderboardEntry, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.leadersDown {
		return nil, errors.New("leaderboard down")
	}
	return append([]annapurna.LeaderboardEntry(nil), f.leaders...), nil
}

func (f *fakeAPI) ActiveJobs(ctx context.Context) ([]annapurna.ActiveJob, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]annapurna.ActiveJob(nil), f.jobs...), nil
}

func (f *fakeAPI) Notifications(ctx context.Context, unreadOnly bool) ([]annapurna.Notification, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func waitSnapshot[T any](t *testing.T, s *viewstate.Syncer[T], cond func(viewstate.Snapshot[T]) bool) viewstate.Snapshot[T] {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("snapshot condition not reached")
	return viewstate.Snapshot[T]{}
}

func TestJobsPage_ShowsFallbackThenGoesLive(t *testing.T) {
	api := &fakeAPI{failing: true}
	p := newJobsPage(api, time.Hour)
	defer p.close()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p.start(ctx)

	waitSnapshot(t, p.syncer, func(s viewstate.Snapshot[[]annapurna.ActiveJob]) bool {
		return !s.Loading
	})
	out := p.view(DefaultTheme(), 80)
	if !strings.Contains(out, "demo data") {
		t.Fatalf("view before any success missing demo marker:\n%s", out)
	}
	if !strings.Contains(out, "Royal Biryani Centre") {
		t.Fatalf("view before any success missing fallback job:\n%s", out)
	}

	api.mu.Lock()
	api.jobs = []annapurna.ActiveJob{{
		ID: 501, Status: annapurna.StatusPickedUp,
		FoodDescription: "Paneer tikka trays",
		QuantityKG:      7,
		Pickup:          annapurna.MapPoint{Name: "Hotel Saffron"},
		Dropoff:         annapurna.MapPoint{Name: "Annakshetra Trust"},
	}}
	api.mu.Unlock()
	api.fail(false)
	p.refocus()

	waitSnapshot(t, p.syncer, func(s viewstate.Snapshot[[]annapurna.ActiveJob]) bool {
		return s.UsingLiveData
	})
	out = p.view(DefaultTheme(), 80)
	if !strings.Contains(out, "Paneer tikka trays") {
		t.Fatalf("live view missing fetched job:\n%s", out)
	}
	if strings.Contains(out, "demo data") {
		t.Fatalf("live view still carries the demo marker:\n%s", out)
	}
}

func TestDashboardPage_PartialFailureKeepsLiveHalf(t *testing.T) {
	api := &fakeAPI{
		stats:       annapurna.ImpactStats{TotalKGSaved: 77, SuccessRate: 91},
		leadersDown: true,
	}
	p := newDashboardPage(api, time.Hour)
	defer p.close()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p.start(ctx)

	snap := waitSnapshot(t, p.syncer, func(s viewstate.Snapshot[dashboardData]) bool {
		return !s.Loading
	})
	if !snap.UsingLiveData {
		t.Fatalf("UsingLiveData = false, want true when the impact half is live")
	}
	if snap.Data.Impact.TotalKGSaved != 77 {
		t.Fatalf("Impact.TotalKGSaved = %v, want 77", snap.Data.Impact.TotalKGSaved)
	}
	if len(snap.Data.Leaders) == 0 {
		t.Fatal("Leaders empty, want the placeholder leaderboard for the failed half")
	}
}
