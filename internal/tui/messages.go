package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justcom/justcom-admin/pkg/client"
	"github.com/justcom/justcom-admin/pkg/domain"
)

// -- messages --

type conversationsLoadedMsg struct {
	conversations []domain.Conversation
	err           error
}

type conversationLoadedMsg struct {
	conversation *domain.Conversation
	err          error
}

type messageSentMsg struct {
	conversationID string
	message        *domain.Message
	err            error
}

type conversationStatusMsg struct {
	conversation *domain.Conversation
	err          error
}

// -- model --

type messagesModel struct {
	client        *client.Client
	conversations []domain.Conversation
	cursor        int // index into visible()
	query         string
	searching     bool
	open          *domain.Conversation // thread shown in detail mode
	input         string
	inputFocused  bool
	sending       bool
	status        string
	err           string
	loading       bool
	frame         int
	width         int
	height        int
}

func newMessagesModel(c *client.Client) messagesModel {
	return messagesModel{client: c, loading: true}
}

func (m messagesModel) Init() tea.Cmd {
	return m.loadConversations()
}

func (m messagesModel) loadConversations() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		convs, err := c.ListConversations(context.Background())
		return conversationsLoadedMsg{conversations: convs, err: err}
	}
}

func (m messagesModel) loadConversation(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		conv, err := c.GetConversation(context.Background(), id)
		return conversationLoadedMsg{conversation: conv, err: err}
	}
}

func (m messagesModel) Update(msg tea.Msg) (messagesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case shimmerTickMsg:
		m.frame++

	case conversationsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.conversations = msg.conversations
		m.err = ""
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}

	case conversationLoadedMsg:
		if msg.err != nil {
			m.status = "could not open conversation: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.open = msg.conversation
		m.status = ""

	case messageSentMsg:
		m.sending = false
		if msg.err != nil {
			m.status = "send failed: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		if m.open != nil && m.open.ID == msg.conversationID && msg.message != nil {
			m.open.Messages = append(m.open.Messages, *msg.message)
		}
		m.input = ""
		m.status = "sent"

	case conversationStatusMsg:
		if msg.err != nil {
			m.status = "status update failed: " + msg.err.Error()
			return m, checkExpired(msg.err)
		}
		m.applyStatus(msg.conversation.ID, msg.conversation.Status)
		m.status = "marked " + statusLabel(msg.conversation.Status)

	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied " + msg.what
		}

	case tea.KeyMsg:
		if m.inputFocused {
			return m.updateInput(msg)
		}
		if m.searching {
			var done bool
			m.query, done = editQuery(m.query, msg.String())
			m.searching = !done
			m.cursor = 0
			return m, nil
		}
		if m.open != nil {
			return m.handleThreadKey(msg)
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

// visible returns the conversations whose customer or subject match the
// search query.
func (m messagesModel) visible() []domain.Conversation {
	if m.query == "" {
		return m.conversations
	}
	var out []domain.Conversation
	for _, c := range m.conversations {
		if matchesQuery(m.query, c.CustomerName, c.Subject) {
			out = append(out, c)
		}
	}
	return out
}

// unread sums unread customer messages across the inbox.
func (m messagesModel) unread() int {
	n := 0
	for _, c := range m.conversations {
		n += c.UnreadCount
	}
	return n
}

func (m *messagesModel) applyStatus(id, status string) {
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			m.conversations[i].Status = status
		}
	}
	if m.open != nil && m.open.ID == id {
		m.open.Status = status
	}
}

func (m messagesModel) handleListKey(msg tea.KeyMsg) (messagesModel, tea.Cmd) {
	convs := m.visible()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(convs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.searching = true
	case "enter":
		if m.cursor < len(convs) {
			return m, m.loadConversation(convs[m.cursor].ID)
		}
	case "r":
		m.loading = true
		return m, m.loadConversations()
	}
	return m, nil
}

func (m messagesModel) handleThreadKey(msg tea.KeyMsg) (messagesModel, tea.Cmd) {
	conv := m.open
	switch msg.String() {
	case "esc":
		m.open = nil
		m.input = ""
		m.status = ""
	case "i", "enter":
		m.inputFocused = true
	case "s":
		next := domain.NextConversationStatus(conv.Status)
		c := m.client
		id := conv.ID
		return m, func() tea.Msg {
			updated, err := c.UpdateConversationStatus(context.Background(), id, next)
			return conversationStatusMsg{conversation: updated, err: err}
		}
	case "c":
		if email := conv.CustomerEmail; email != "" {
			return m, func() tea.Msg {
				return copyResultMsg{what: email, err: clipboard.WriteAll(email)}
			}
		}
	case "r":
		return m, m.loadConversation(conv.ID)
	}
	return m, nil
}

func (m messagesModel) updateInput(msg tea.KeyMsg) (messagesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputFocused = false
	case "enter":
		content := strings.TrimSpace(m.input)
		if content == "" || m.sending || m.open == nil {
			return m, nil
		}
		m.sending = true
		m.inputFocused = false
		c := m.client
		id := m.open.ID
		return m, func() tea.Msg {
			sent, err := c.SendMessage(context.Background(), id, content)
			return messageSentMsg{conversationID: id, message: sent, err: err}
		}
	default:
		m.input = editRune(m.input, msg.String())
	}
	return m, nil
}

func (m messagesModel) View() string {
	if m.open != nil {
		return m.threadView()
	}

	var b strings.Builder
	if m.loading && len(m.conversations) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.conversations) == 0 {
		b.WriteString(" " + dimStyle.Render("inbox zero") + "\n")
		return b.String()
	}

	if bar := searchBar(m.query, m.searching, m.frame); bar != "" {
		b.WriteString(bar + "\n")
	}
	convs := m.visible()
	if len(convs) == 0 {
		b.WriteString(" " + dimStyle.Render("no conversations match "+strconv.Quote(m.query)) + "\n")
	}
	for i, conv := range convs {
		cursor := " "
		subject := normalStyle.Render(padRight(truncStr(conv.Subject, 32), 32))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			subject = selectedStyle.Render(padRight(truncStr(conv.Subject, 32), 32))
		}
		unread := ""
		if conv.UnreadCount > 0 {
			unread = "  " + accentStyle.Render(fmt.Sprintf("●%d", conv.UnreadCount))
		}
		fmt.Fprintf(&b, " %s %s  %s  %s  %s  %s%s\n",
			cursor, subject,
			dimStyle.Render(padRight(truncStr(conv.CustomerName, 18), 18)),
			conversationBadge(conv.Status),
			priorityBadge(conv.Priority),
			metaStyle.Render(formatTime(conv.UpdatedAt)),
			unread)
	}
	if m.status != "" {
		b.WriteString("\n " + warnStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m messagesModel) threadView() string {
	conv := m.open
	var b strings.Builder

	fmt.Fprintf(&b, " %s  %s  %s\n", selectedStyle.Render(conv.Subject), conversationBadge(conv.Status), priorityBadge(conv.Priority))
	fmt.Fprintf(&b, " %s %s", normalStyle.Render(conv.CustomerName), dimStyle.Render(conv.CustomerEmail))
	if conv.RelatedOrderID != "" {
		b.WriteString(dimStyle.Render("  order " + conv.RelatedOrderID))
	}
	b.WriteString("\n\n")

	if len(conv.Messages) == 0 {
		b.WriteString(" " + dimStyle.Render("no messages yet") + "\n")
	}
	for _, msg := range conv.Messages {
		style := customerMessageStyle
		if msg.SenderType == "admin" {
			style = adminMessageStyle
		}
		fmt.Fprintf(&b, " %s %s\n", style.Bold(true).Render(msg.SenderName), metaStyle.Render(formatTime(msg.CreatedAt)))
		for _, line := range strings.Split(msg.Content, "\n") {
			b.WriteString("   " + style.Render(line) + "\n")
		}
	}

	b.WriteString("\n " + renderInput(m.input, "write a reply...", m.inputFocused, m.frame) + "\n")
	if m.sending {
		b.WriteString(" " + dimStyle.Render("sending...") + "\n")
	} else if m.status != "" {
		b.WriteString(" " + warnStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m messagesModel) helpKeys() string {
	switch {
	case m.inputFocused:
		return helpEntry("enter", "send") + "  " + helpEntry("esc", "stop typing")
	case m.searching:
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	case m.open != nil:
		return helpEntry("i", "reply") + "  " + helpEntry("s", "status") + "  " + helpEntry("c", "copy email") + "  " + helpEntry("r", "reload") + "  " + helpEntry("esc", "back")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("/", "search") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
	}
}
