package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
	"github.com/shahnoor-exe/ladle/internal/fallback"
	"github.com/shahnoor-exe/ladle/internal/viewstate"
)

type ordersPage struct {
	syncer *viewstate.Syncer[[]annapurna.Order]
	table  table.Model

	// lastSeq tracks the snapshot already loaded into the table so rows are
	// rebuilt only when the syncer applied something new.
	lastSeq uint64
}

func newOrdersPage(client annapurna.Fetcher, interval time.Duration, theme Theme) *ordersPage {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Status", Width: 11},
		{Title: "Food", Width: 34},
		{Title: "Qty", Width: 8},
		{Title: "Restaurant", Width: 22},
		{Title: "NGO", Width: 22},
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = theme.Selected

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithStyles(styles),
	)

	return &ordersPage{
		syncer: viewstate.New(viewstate.Config[[]annapurna.Order]{
			Name:     "orders",
			Fetch:    func(ctx context.Context) ([]annapurna.Order, error) { return client.MyOrders(ctx) },
			Fallback: fallback.Orders,
			Interval: interval,
		}),
		table: t,
	}
}

func (p *ordersPage) start(ctx context.Context) { p.syncer.Start(ctx) }
func (p *ordersPage) refocus()                  { p.syncer.Refocus() }
func (p *ordersPage) close()                    { p.syncer.Close() }

// sync reloads the table rows when the syncer holds a newer snapshot.
func (p *ordersPage) sync() {
	snap := p.syncer.Snapshot()
	if snap.Seq == p.lastSeq && p.lastSeq != 0 {
		return
	}
	p.lastSeq = snap.Seq

	rows := make([]table.Row, 0, len(snap.Data))
	for _, o := range snap.Data {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", o.ID),
			string(o.Status),
			truncate(o.FoodDescription, 34),
			formatKG(o.QuantityKG),
			truncate(o.RestaurantName, 22),
			truncate(o.NGOName, 22),
		})
	}
	cursor := p.table.Cursor()
	p.table.SetRows(rows)
	if cursor >= len(rows) && len(rows) > 0 {
		p.table.SetCursor(len(rows) - 1)
	}
}

// selected returns the order under the cursor, if any.
func (p *ordersPage) selected() (annapurna.Order, bool) {
	snap := p.syncer.Snapshot()
	cursor := p.table.Cursor()
	if cursor < 0 || cursor >= len(snap.Data) {
		return annapurna.Order{}, false
	}
	return snap.Data[cursor], true
}

func (p *ordersPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *ordersPage) view(theme Theme, width int) string {
	snap := p.syncer.Snapshot()
	if snap.Loading {
		return theme.Dim.Render("Loading orders...")
	}
	p.sync()

	var b strings.Builder
	b.WriteString(theme.Title.Render("My Orders"))
	if !snap.UsingLiveData {
		b.WriteString("  " + theme.Stale.Render("demo data"))
	} else if snap.LastError != nil {
		b.WriteString("  " + theme.Stale.Render("stale · last refresh failed"))
	}
	b.WriteString("\n\n")

	if len(snap.Data) == 0 {
		b.WriteString(theme.Dim.Render("No orders yet. Surplus you post will appear here."))
		return b.String()
	}

	b.WriteString(p.table.View())
	b.WriteString("\n")
	if !snap.LastUpdated.IsZero() {
		b.WriteString(theme.Dim.Render("updated " + humanizeDuration(time.Since(snap.LastUpdated)) + " ago"))
		b.WriteString("  ")
	}
	b.WriteString(theme.Dim.Render("enter: track selected"))
	return b.String()
}
