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

// jobsPage lists every in-flight delivery in the network, the terminal
// rendition of the live map. It polls at the tracking cadence because
// driver positions inside the payload go stale quickly.
type jobsPage struct {
	syncer *viewstate.Syncer[[]annapurna.ActiveJob]
}

func newJobsPage(client annapurna.Fetcher, interval time.Duration) *jobsPage {
	return &jobsPage{
		syncer: viewstate.New(viewstate.Config[[]annapurna.ActiveJob]{
			Name:     "jobs",
			Fetch:    func(ctx context.Context) ([]annapurna.ActiveJob, error) { return client.ActiveJobs(ctx) },
			Fallback: fallback.ActiveJobs,
			Interval: interval,
		}),
	}
}

func (p *jobsPage) start(ctx context.Context) { p.syncer.Start(ctx) }
func (p *jobsPage) refocus()                  { p.syncer.Refocus() }
func (p *jobsPage) close()                    { p.syncer.Close() }

func (p *jobsPage) view(theme Theme, width int) string {
	snap := p.syncer.Snapshot()
	if snap.Loading {
		return theme.Dim.Render("Loading live deliveries...")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Live Deliveries"))
	if !snap.UsingLiveData {
		b.WriteString("  " + theme.Stale.Render("demo data"))
	} else if snap.LastError != nil {
		b.WriteString("  " + theme.Stale.Render("stale · last refresh failed"))
	}
	b.WriteString("\n\n")

	if len(snap.Data) == 0 {
		b.WriteString(theme.Dim.Render("No deliveries on the road right now."))
		return b.String()
	}

	for _, job := range snap.Data {
		b.WriteString(theme.StatusStyle(job.Status).Bold(true).Render("● " + statusLabel(job.Status)))
		b.WriteString(theme.Value.Render(fmt.Sprintf("  #%d  %s", job.ID, truncate(job.FoodDescription, 42))))
		b.WriteString(theme.Dim.Render("  " + formatKG(job.QuantityKG)))
		b.WriteString("\n")
		b.WriteString(theme.Label.Render("   " + truncate(job.Pickup.Name, 26)))
		b.WriteString(theme.Dim.Render(" → "))
		b.WriteString(theme.Label.Render(truncate(job.Dropoff.Name, 26)))
		if job.Driver != nil {
			b.WriteString(theme.Dim.Render(fmt.Sprintf("   %s (%s) at %.4f, %.4f",
				job.Driver.Name, job.Driver.Vehicle, job.Driver.Lat, job.Driver.Lng)))
		}
		if job.ETAMinutes > 0 {
			b.WriteString(theme.Accent.Render(fmt.Sprintf("   ETA %dm", job.ETAMinutes)))
		}
		b.WriteString("\n")
	}

	if !snap.LastUpdated.IsZero() {
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render("updated " + humanizeDuration(time.Since(snap.LastUpdated)) + " ago"))
	}
	return b.String()
}
