package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justcom/justcom-admin/pkg/client"
	"github.com/justcom/justcom-admin/pkg/domain"
	"github.com/justcom/justcom-admin/pkg/session"
)

// -- messages --

type sessionLoadedMsg struct {
	user      *domain.User
	expiresAt time.Time // zero when the token carries no exp claim
}

type loggedOutMsg struct {
	err error
}

// -- model --

type settingsModel struct {
	client        *client.Client
	user          *domain.User
	expiresAt     time.Time
	apiURL        string
	backend       string
	confirmLogout bool
	status        string
	width         int
	height        int
}

func newSettingsModel(c *client.Client, backend string) settingsModel {
	m := settingsModel{client: c, backend: backend}
	if c != nil {
		m.apiURL = c.BaseURL()
	}
	return m
}

func (m settingsModel) Init() tea.Cmd {
	return m.loadSession()
}

func (m settingsModel) loadSession() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		sess := c.Session(context.Background())
		if sess == nil {
			return sessionLoadedMsg{}
		}
		msg := sessionLoadedMsg{user: &sess.User}
		if exp, ok := session.AccessTokenExpiry(sess.AccessToken); ok {
			msg.expiresAt = exp
		}
		return msg
	}
}

func (m settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionLoadedMsg:
		m.user = msg.user
		m.expiresAt = msg.expiresAt

	case tea.KeyMsg:
		if m.confirmLogout {
			m.confirmLogout = false
			if msg.String() != "y" {
				m.status = ""
				return m, nil
			}
			c := m.client
			m.status = "signing out..."
			return m, func() tea.Msg {
				return loggedOutMsg{err: c.Logout(context.Background())}
			}
		}
		switch msg.String() {
		case "L":
			m.confirmLogout = true
			m.status = "sign out of this device? y to confirm"
		case "r":
			return m, m.loadSession()
		}
	}
	return m, nil
}

func (m settingsModel) View() string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, " %s %s\n", dimStyle.Render(padRight(label, 14)), value)
	}

	b.WriteString(" " + selectedStyle.Render("Profile") + "\n")
	if m.user == nil {
		row("signed in", metaStyle.Render("no session"))
	} else {
		row("name", normalStyle.Render(m.user.DisplayName()))
		row("email", normalStyle.Render(m.user.Email))
		if m.user.Role != "" {
			row("role", normalStyle.Render(m.user.Role))
		}
	}

	b.WriteString("\n " + selectedStyle.Render("Connection") + "\n")
	row("api", normalStyle.Render(m.apiURL))
	row("session store", normalStyle.Render(m.backend))
	row("access token", m.expiryLine(time.Now()))

	if m.status != "" {
		b.WriteString("\n " + warnStyle.Render(m.status) + "\n")
	}
	return b.String()
}

// expiryLine describes when the access token expires. An expired token is
// fine: the next request refreshes it.
func (m settingsModel) expiryLine(now time.Time) string {
	if m.expiresAt.IsZero() {
		return metaStyle.Render("opaque token")
	}
	left := m.expiresAt.Sub(now)
	if left <= 0 {
		return warnStyle.Render("expired, refreshes on next request")
	}
	return normalStyle.Render(fmt.Sprintf("expires in %s", left.Round(time.Minute)))
}

func (m settingsModel) helpKeys() string {
	if m.confirmLogout {
		return helpEntry("y", "sign out") + "  " + helpEntry("any", "cancel")
	}
	return helpEntry("L", "sign out") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
}
