package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
	"github.com/shahnoor-exe/ladle/internal/fallback"
	"github.com/shahnoor-exe/ladle/internal/viewstate"
)

// dashboardData is the combined payload behind the impact view. The two
// endpoints degrade independently; a failed half keeps its placeholder.
type dashboardData struct {
	Impact  annapurna.ImpactStats
	Leaders []annapurna.LeaderboardEntry
}

type dashboardPage struct {
	syncer *viewstate.Syncer[dashboardData]
}

func newDashboardPage(client annapurna.Fetcher, interval time.Duration) *dashboardPage {
	fetch := func(ctx context.Context) (dashboardData, error) {
		var data dashboardData
		var b viewstate.Batch
		b.Go(func() error {
			stats, err := client.ImpactDashboard(ctx)
			if err != nil {
				data.Impact = fallback.Impact()
				return err
			}
			data.Impact = *stats
			return nil
		})
		b.Go(func() error {
			leaders, err := client.Leaderboard(ctx, "kg_saved", 5)
			if err != nil {
				data.Leaders = fallback.Leaderboard()
				return err
			}
			data.Leaders = leaders
			return nil
		})
		err := b.Wait()
		return data, err
	}

	return &dashboardPage{
		syncer: viewstate.New(viewstate.Config[dashboardData]{
			Name:     "dashboard",
			Fetch:    fetch,
			Interval: interval,
			Fallback: func() dashboardData {
				return dashboardData{Impact: fallback.Impact(), Leaders: fallback.Leaderboard()}
			},
		}),
	}
}

func (p *dashboardPage) start(ctx context.Context) { p.syncer.Start(ctx) }
func (p *dashboardPage) refocus()                  { p.syncer.Refocus() }
func (p *dashboardPage) close()                    { p.syncer.Close() }

func (p *dashboardPage) view(theme Theme, width int) string {
	snap := p.syncer.Snapshot()
	if snap.Loading {
		return theme.Dim.Render("Loading impact data...")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Impact Dashboard"))
	if !snap.UsingLiveData {
		b.WriteString("  " + theme.Stale.Render("demo data"))
	} else if snap.LastError != nil {
		b.WriteString("  " + theme.Stale.Render("stale · last refresh failed"))
	}
	b.WriteString("\n\n")

	s := snap.Data.Impact
	rows := []struct{ label, value string }{
		{"Food rescued", formatKG(s.TotalKGSaved)},
		{"Meals served", formatCount(s.TotalMealsServed)},
		{"CO₂ avoided", formatKG(s.TotalCO2SavedKG)},
		{"Water saved", fmt.Sprintf("%.0f L", s.TotalWaterSavedL)},
		{"Money saved", fmt.Sprintf("₹%.0f", s.TotalMoneySavedINR)},
		{"Active orders", fmt.Sprintf("%d", s.ActiveOrders)},
		{"Delivered today", fmt.Sprintf("%d (%s)", s.DeliveredToday, formatKG(s.TodayKGSaved))},
		{"Success rate", fmt.Sprintf("%.1f%%", s.SuccessRate)},
	}
	for _, row := range rows {
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-16s", row.label)))
		b.WriteString(theme.Value.Render(row.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Header.Render("Top Contributors"))
	b.WriteString("\n")
	for _, e := range snap.Data.Leaders {
		name := truncate(e.Name, 28)
		b.WriteString(theme.Accent.Render(fmt.Sprintf("%2d. ", e.Rank)))
		b.WriteString(theme.Value.Render(fmt.Sprintf("%-30s", name)))
		b.WriteString(theme.Label.Render(formatKG(e.Value)))
		b.WriteString("\n")
	}

	if !snap.LastUpdated.IsZero() {
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render("updated " + humanizeDuration(time.Since(snap.LastUpdated)) + " ago"))
	}
	return b.String()
}
