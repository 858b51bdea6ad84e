package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justcom/justcom-admin/pkg/client"
	"github.com/justcom/justcom-admin/pkg/domain"
)

type view int

const (
	viewOverview view = iota
	viewProducts
	viewOrders
	viewMessages
	viewSettings
)

// sessionExpiredMsg is sent when any call reports that the session is gone.
type sessionExpiredMsg struct{}

// checkExpired returns a command announcing session expiry when err carries
// client.ErrSessionExpired, else nil.
func checkExpired(err error) tea.Cmd {
	if errors.Is(err, client.ErrSessionExpired) {
		return func() tea.Msg { return sessionExpiredMsg{} }
	}
	return nil
}

// Options configures the App.
type Options struct {
	Version        string
	SessionBackend string
	User           *domain.User // signed-in user shown in the header
}

// App is the root Bubbletea model.
type App struct {
	client    *client.Client
	opts      Options
	view      view
	overview  overviewModel
	products  productsModel
	orders    ordersModel
	messages  messagesModel
	settings  settingsModel
	expired   bool
	signedOut bool
	width     int
	height    int
	frame     int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, opts Options) App {
	return App{
		client:   c,
		opts:     opts,
		overview: newOverviewModel(c),
		products: newProductsModel(c),
		orders:   newOrdersModel(c),
		messages: newMessagesModel(c),
		settings: newSettingsModel(c, opts.SessionBackend),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.overview.Init(), a.settings.Init(), shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + blank(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.overview, _ = a.overview.Update(bodyMsg)
		a.products, _ = a.products.Update(bodyMsg)
		a.orders, _ = a.orders.Update(bodyMsg)
		a.messages, _ = a.messages.Update(bodyMsg)
		a.settings, _ = a.settings.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		a.products, _ = a.products.Update(msg)
		a.orders, _ = a.orders.Update(msg)
		a.messages, _ = a.messages.Update(msg)
		return a, shimmerTickCmd()

	case sessionExpiredMsg:
		a.expired = true
		return a, nil

	case loggedOutMsg:
		a.signedOut = true
		if msg.err != nil {
			a.settings.status = "sign out failed: " + msg.err.Error()
			a.signedOut = false
		}
		return a, nil

	case sessionLoadedMsg:
		a.settings, _ = a.settings.Update(msg)
		if msg.user != nil {
			a.opts.User = msg.user
		}
		return a, nil

	case tea.KeyMsg:
		if a.expired || a.signedOut {
			switch msg.String() {
			case "q", "ctrl+c", "esc", "enter":
				return a, tea.Quit
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewOverview)
			case "2":
				return a.switchTo(viewProducts)
			case "3":
				return a.switchTo(viewOrders)
			case "4":
				return a.switchTo(viewMessages)
			case "5":
				return a.switchTo(viewSettings)
			}
		}
	}

	// Loaded messages go to their owner regardless of the active tab, so a
	// slow response still lands after the user switched away.
	var cmd tea.Cmd
	switch msg.(type) {
	case statsLoadedMsg, salesLoadedMsg:
		a.overview, cmd = a.overview.Update(msg)
	case productsLoadedMsg, productLoadedMsg, productCreatedMsg, productUpdatedMsg, productDeletedMsg:
		a.products, cmd = a.products.Update(msg)
	case ordersLoadedMsg, orderLoadedMsg, orderUpdatedMsg:
		a.orders, cmd = a.orders.Update(msg)
	case conversationsLoadedMsg, conversationLoadedMsg, messageSentMsg, conversationStatusMsg:
		a.messages, cmd = a.messages.Update(msg)
	default:
		cmd = a.updateActive(msg)
	}
	return a, cmd
}

// updateActive routes msg to the visible view.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.view {
	case viewOverview:
		a.overview, cmd = a.overview.Update(msg)
	case viewProducts:
		a.products, cmd = a.products.Update(msg)
	case viewOrders:
		a.orders, cmd = a.orders.Update(msg)
	case viewMessages:
		a.messages, cmd = a.messages.Update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.Update(msg)
	}
	return cmd
}

func (a App) switchTo(v view) (tea.Model, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	a.view = v
	switch v {
	case viewOverview:
		return a, a.overview.Init()
	case viewProducts:
		return a, a.products.Init()
	case viewOrders:
		return a, a.orders.Init()
	case viewMessages:
		return a, a.messages.Init()
	case viewSettings:
		return a, a.settings.Init()
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view {
	case viewMessages:
		return a.messages.inputFocused || a.messages.searching
	case viewProducts:
		return a.products.confirmDelete || a.products.searching || a.products.form != nil
	case viewOrders:
		return a.orders.searching
	case viewSettings:
		return a.settings.confirmLogout
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width)

	var who []string
	if u := a.opts.User; u != nil {
		who = append(who, u.DisplayName())
		if u.Role != "" {
			who = append(who, u.Role)
		}
	}
	if a.opts.Version != "" {
		who = append(who, a.opts.Version)
	}
	header += "\n" + center(metaStyle.Render(strings.Join(who, " · ")), a.width)

	if a.expired {
		return header + "\n\n" + expiredView()
	}
	if a.signedOut {
		return header + "\n\n " + positiveStyle.Render("Signed out.") + "\n\n " + helpEntry("q", "quit") + "\n"
	}

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Overview", viewOverview},
		{"2", "Products", viewProducts},
		{"3", "Orders", viewOrders},
		{"4", "Messages", viewMessages},
		{"5", "Settings", viewSettings},
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewMessages {
			if n := a.messages.unread(); n > 0 {
				label += " " + accentStyle.Render(fmt.Sprintf("●%d", n))
			}
		}
		tabBar.WriteString(centerIn(label, colWidth))
	}

	var body, help string
	switch a.view {
	case viewOverview:
		body, help = a.overview.View(), a.overview.helpKeys()
	case viewProducts:
		body, help = a.products.View(), a.products.helpKeys()
	case viewOrders:
		body, help = a.orders.View(), a.orders.helpKeys()
	case viewMessages:
		body, help = a.messages.View(), a.messages.helpKeys()
	case viewSettings:
		body, help = a.settings.View(), a.settings.helpKeys()
	}
	if !a.isEditing() {
		help = helpEntry("1-5", "tabs") + "  " + help
	}

	const chrome = 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n\n%s\n %s", header, tabBar.String(), body, help)
}

func expiredView() string {
	return " " + errorStyle.Render(client.ErrSessionExpired.Error()) + "\n\n" +
		" " + dimStyle.Render("Run ") + accentStyle.Render("justcom-admin login") + dimStyle.Render(" to sign in again.") + "\n\n" +
		" " + helpEntry("q", "quit") + "\n"
}

// center pads s on the left so it sits in the middle of width cells.
func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// centerIn centers s in a column of width cells.
func centerIn(s string, width int) string {
	w := lipgloss.Width(s)
	left := (width - w) / 2
	if left < 0 {
		left = 0
	}
	right := width - w - left
	if right < 0 {
		right = 0
	}
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
