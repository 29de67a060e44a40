package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
	"github.com/shahnoor-exe/ladle/internal/config"
	"github.com/shahnoor-exe/ladle/internal/livestore"
	"github.com/shahnoor-exe/ladle/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewDashboard
	ViewOrders
	ViewJobs
	ViewTrack
)

// redrawTick is the render cadence. Pages read their syncer snapshots in
// View, so the tick only forces a repaint; it issues no fetches.
const redrawTick = time.Second

// Options configures the UI.
type Options struct {
	Context context.Context
	Client  *annapurna.Client
	Session *session.Session
	Store   *livestore.Store
	Config  config.Config
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	client  *annapurna.Client
	session *session.Session
	store   *livestore.Store
	cfg     config.Config

	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	login     *loginPage
	dashboard *dashboardPage
	orders    *ordersPage
	jobs      *jobsPage
	track     *trackPage

	// pagesStarted guards the one-time syncer start after authentication.
	pagesStarted bool
}

// New creates a new Bubble Tea model.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := DefaultTheme()
	m := &Model{
		ctx:       ctx,
		client:    opts.Client,
		session:   opts.Session,
		store:     opts.Store,
		cfg:       opts.Config,
		theme:     theme,
		login:     newLoginPage(),
		dashboard: newDashboardPage(opts.Client, opts.Config.DashboardPoll),
		orders:    newOrdersPage(opts.Client, opts.Config.OrdersPoll, theme),
		jobs:      newJobsPage(opts.Client, opts.Config.TrackPoll),
	}

	if opts.Session != nil && opts.Session.LoggedIn() && !opts.Session.Expired() {
		m.currentView = ViewDashboard
		m.startPages()
	}
	return m
}

func (m *Model) startPages() {
	if m.pagesStarted {
		return
	}
	m.pagesStarted = true
	m.dashboard.start(m.ctx)
	m.orders.start(m.ctx)
	m.jobs.start(m.ctx)
}

// closePages tears everything down; called once after the program exits.
func (m *Model) closePages() {
	m.dashboard.close()
	m.orders.close()
	m.jobs.close()
	if m.track != nil {
		m.track.close()
		m.track = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.FocusMsg:
		// The terminal regained focus; refresh the visible page out of
		// cadence so it does not show data up to a full interval old.
		m.refocusActive()
		return m, nil

	case tickMsg:
		m.checkAuth()
		return m, tickCmd()

	case loginResultMsg:
		user, ok := m.login.finish(msg)
		if !ok {
			return m, nil
		}
		if m.session != nil {
			if err := m.session.Login(msg.token.AccessToken, user); err != nil {
				m.login.err = err
				return m, nil
			}
		}
		m.currentView = ViewDashboard
		m.startPages()
		return m, nil
	}

	return m, nil
}

// refocusActive triggers an out-of-cadence fetch on the visible page.
// The tracking watcher keeps its own short cadence and is left alone.
func (m *Model) refocusActive() {
	switch m.currentView {
	case ViewDashboard:
		m.dashboard.refocus()
	case ViewOrders:
		m.orders.refocus()
	case ViewJobs:
		m.jobs.refocus()
	}
}

// checkAuth drops back to the login view when the API starts rejecting the
// stored token.
func (m *Model) checkAuth() {
	if m.currentView == ViewLogin || m.session == nil {
		return
	}
	for _, err := range []error{
		m.orders.syncer.Snapshot().LastError,
		m.dashboard.syncer.Snapshot().LastError,
		m.jobs.syncer.Snapshot().LastError,
	} {
		var apiErr *annapurna.APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			m.session.Logout()
			m.stopTracking()
			m.currentView = ViewLogin
			m.login.err = errors.New("session expired, sign in again")
			return
		}
	}
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.currentView == ViewLogin {
		return m, m.login.handleKey(msg, m.client)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "r":
		m.refocusActive()
		return m, nil

	case "d", "1":
		m.stopTracking()
		m.currentView = ViewDashboard
		m.dashboard.refocus()
		return m, nil

	case "o", "2":
		m.stopTracking()
		m.currentView = ViewOrders
		m.orders.refocus()
		return m, nil

	case "m", "3":
		m.stopTracking()
		m.currentView = ViewJobs
		m.jobs.refocus()
		return m, nil

	case "esc":
		m.stopTracking()
		m.currentView = ViewOrders
		return m, nil

	case "enter", "t":
		if m.currentView == ViewOrders {
			if order, ok := m.orders.selected(); ok {
				m.startTracking(order)
			}
			return m, nil
		}
	}

	if m.currentView == ViewOrders {
		return m, m.orders.handleKey(msg)
	}
	return m, nil
}

func (m *Model) startTracking(order annapurna.Order) {
	m.stopTracking()
	m.track = newTrackPage(m.ctx, m.client, m.store, order, m.cfg.TrackPoll)
	m.currentView = ViewTrack
}

func (m *Model) stopTracking() {
	if m.track != nil {
		m.track.close()
		m.track = nil
	}
	if m.currentView == ViewTrack {
		m.currentView = ViewOrders
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.currentView {
	case ViewLogin:
		b.WriteString(m.login.view(m.theme, m.width))
	case ViewDashboard:
		b.WriteString(m.dashboard.view(m.theme, m.width))
	case ViewOrders:
		b.WriteString(m.orders.view(m.theme, m.width))
	case ViewJobs:
		b.WriteString(m.jobs.view(m.theme, m.width))
	case ViewTrack:
		if m.track != nil {
			b.WriteString(m.track.view(m.theme, m.width))
		}
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	var parts []string
	parts = append(parts, m.theme.Title.Render("ladle"))
	if m.session != nil {
		if u, ok := m.session.User(); ok {
			name := u.FullName
			if name == "" {
				name = u.Email
			}
			parts = append(parts, m.theme.Label.Render(name+" ("+u.Role+")"))
		}
	}
	parts = append(parts, m.theme.Dim.Render("d:dashboard  o:orders  m:map  enter:track  r:refresh  ?:help  q:quit"))
	return strings.Join(parts, "   ")
}

func (m *Model) renderHelp() string {
	lines := []struct{ key, desc string }{
		{"d / 1", "Impact dashboard"},
		{"o / 2", "My orders"},
		{"m / 3", "Live deliveries"},
		{"enter / t", "Track the selected order"},
		{"esc", "Back to orders"},
		{"r", "Refresh the current view now"},
		{"j/k, arrows", "Move the order selection"},
		{"h / ?", "This help"},
		{"q, Ctrl+C", "Quit"},
	}
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, l := range lines {
		b.WriteString(m.theme.Accent.Render("  " + l.key))
		b.WriteString(strings.Repeat(" ", 16-len(l.key)))
		b.WriteString(m.theme.Value.Render(l.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Dim.Render("press any key to close"))
	return b.String()
}

// Messages

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(redrawTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits. Page syncers
// and watchers are torn down before Run returns.
func Run(opts Options) error {
	m := New(opts)
	defer m.closePages()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx), tea.WithReportFocus())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Context cancellation (Ctrl+C via signal) is a normal shutdown.
		return nil
	}
	return err
}
