package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
	"github.com/shahnoor-exe/ladle/internal/session"
)

const loginTimeout = 10 * time.Second

// loginResultMsg carries the outcome of a login attempt back into Update.
type loginResultMsg struct {
	token *annapurna.Token
	err   error
}

type loginPage struct {
	email      textinput.Model
	password   textinput.Model
	focusIdx   int
	submitting bool
	err        error
}

func newLoginPage() *loginPage {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	return &loginPage{email: email, password: password}
}

func (p *loginPage) handleKey(msg tea.KeyMsg, client *annapurna.Client) tea.Cmd {
	if p.submitting {
		return nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		p.toggleFocus()
		return nil

	case "enter":
		if p.focusIdx == 0 {
			p.toggleFocus()
			return nil
		}
		email := strings.TrimSpace(p.email.Value())
		password := p.password.Value()
		if email == "" || password == "" {
			return nil
		}
		p.submitting = true
		p.err = nil
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
			defer cancel()
			token, err := client.Login(ctx, email, password)
			return loginResultMsg{token: token, err: err}
		}
	}

	var cmd tea.Cmd
	if p.focusIdx == 0 {
		p.email, cmd = p.email.Update(msg)
	} else {
		p.password, cmd = p.password.Update(msg)
	}
	return cmd
}

func (p *loginPage) toggleFocus() {
	if p.focusIdx == 0 {
		p.focusIdx = 1
		p.email.Blur()
		p.password.Focus()
	} else {
		p.focusIdx = 0
		p.password.Blur()
		p.email.Focus()
	}
}

// finish records the login outcome and returns the session user on success.
func (p *loginPage) finish(msg loginResultMsg) (session.User, bool) {
	p.submitting = false
	if msg.err != nil {
		p.err = msg.err
		p.password.SetValue("")
		return session.User{}, false
	}
	u := msg.token.User
	return session.User{Email: u.Email, FullName: u.FullName, Role: u.Role}, true
}

func (p *loginPage) view(theme Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Sign in to Annapurna"))
	b.WriteString("\n\n")
	b.WriteString(p.email.View())
	b.WriteString("\n")
	b.WriteString(p.password.View())
	b.WriteString("\n\n")

	switch {
	case p.submitting:
		b.WriteString(theme.Dim.Render("Signing in..."))
	case p.err != nil:
		b.WriteString(theme.Error.Render(loginErrorText(p.err)))
	default:
		b.WriteString(theme.Dim.Render("enter: sign in · tab: switch field · ctrl+c: quit"))
	}
	return b.String()
}

// loginErrorText keeps credential failures short and transport failures
// verbatim, which is what the user needs to diagnose each.
func loginErrorText(err error) string {
	var apiErr *annapurna.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		return "Invalid email or password."
	}
	return "Sign-in failed: " + err.Error()
}
