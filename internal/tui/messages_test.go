package tui

import (
	"strings"
	"testing"

	"github.com/justcom/justcom-admin/pkg/domain"
)

func testConversations() []domain.Conversation {
	return []domain.Conversation{
		{ID: "c1", Subject: "Where is my order?", CustomerName: "Jan de Vries", CustomerEmail: "jan@example.com", Status: domain.ConversationOpen, Priority: "high", UnreadCount: 2},
		{ID: "c2", Subject: "Battery health question", CustomerName: "Lea Müller", Status: domain.ConversationResolved, Priority: "low"},
	}
}

func newTestMessagesModel() messagesModel {
	m := newMessagesModel(nil)
	m.width = 100
	m.height = 30
	m, _ = m.Update(conversationsLoadedMsg{conversations: testConversations()})
	return m
}

func openThread(t *testing.T, m messagesModel) messagesModel {
	t.Helper()
	conv := testConversations()[0]
	conv.Messages = []domain.Message{
		{ID: "m1", SenderType: "customer", SenderName: "Jan de Vries", Content: "It has been a week."},
		{ID: "m2", SenderType: "admin", SenderName: "Support", Content: "Checking now."},
	}
	m, _ = m.Update(conversationLoadedMsg{conversation: &conv})
	if m.open == nil {
		t.Fatal("thread not opened")
	}
	return m
}

func TestMessagesRendersInbox(t *testing.T) {
	view := newTestMessagesModel().View()
	for _, want := range []string{"Where is my order?", "Jan de Vries", "Open", "High", "Resolved", "●2"} {
		if !strings.Contains(view, want) {
			t.Errorf("inbox missing %q:\n%s", want, view)
		}
	}
}

func TestMessagesEnterLoadsThread(t *testing.T) {
	m := newTestMessagesModel()
	if _, cmd := m.Update(keyMsg("enter")); cmd == nil {
		t.Fatal("expected conversation load on enter")
	}
}

func TestMessagesThreadView(t *testing.T) {
	m := openThread(t, newTestMessagesModel())
	view := m.View()
	for _, want := range []string{"It has been a week.", "Checking now.", "jan@example.com", "write a reply..."} {
		if !strings.Contains(view, want) {
			t.Errorf("thread missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(keyMsg("esc"))
	if m.open != nil {
		t.Error("esc should return to the inbox")
	}
}

func TestMessagesReplyFlow(t *testing.T) {
	m := openThread(t, newTestMessagesModel())

	m, _ = m.Update(keyMsg("i"))
	if !m.inputFocused {
		t.Fatal("i should focus the reply input")
	}
	for _, k := range []string{"O", "n", " ", "i", "t", "s", " ", "w", "a", "y"} {
		m, _ = m.Update(keyMsg(k))
	}
	if m.input != "On its way" {
		t.Fatalf("input = %q", m.input)
	}

	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected send command")
	}
	if !m.sending || m.inputFocused {
		t.Error("send should lock input while in flight")
	}

	m, _ = m.Update(messageSentMsg{conversationID: "c1", message: &domain.Message{ID: "m3", SenderType: "admin", SenderName: "Support", Content: "On its way"}})
	if m.sending || m.input != "" {
		t.Errorf("after send: sending=%v input=%q", m.sending, m.input)
	}
	if n := len(m.open.Messages); n != 3 {
		t.Errorf("thread has %d messages, want 3", n)
	}
}

func TestMessagesBlankReplyNotSent(t *testing.T) {
	m := openThread(t, newTestMessagesModel())
	m, _ = m.Update(keyMsg("i"))
	m, _ = m.Update(keyMsg(" "))
	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Error("whitespace-only reply should not be sent")
	}
}

func TestMessagesStatusCycle(t *testing.T) {
	m := openThread(t, newTestMessagesModel())
	if _, cmd := m.Update(keyMsg("s")); cmd == nil {
		t.Fatal("expected status update command")
	}
	m, _ = m.Update(conversationStatusMsg{conversation: &domain.Conversation{ID: "c1", Status: domain.ConversationInProgress}})
	if m.open.Status != domain.ConversationInProgress || m.conversations[0].Status != domain.ConversationInProgress {
		t.Error("status not applied to thread and inbox")
	}
	if m.status != "marked In Progress" {
		t.Errorf("status = %q", m.status)
	}
}

func TestMessagesUnread(t *testing.T) {
	if got := newTestMessagesModel().unread(); got != 2 {
		t.Errorf("unread = %d, want 2", got)
	}
}

func TestMessagesEmptyInbox(t *testing.T) {
	m := newMessagesModel(nil)
	m, _ = m.Update(conversationsLoadedMsg{})
	if !strings.Contains(m.View(), "inbox zero") {
		t.Errorf("missing empty state:\n%s", m.View())
	}
}

func TestMessagesSearch(t *testing.T) {
	m := newTestMessagesModel()
	m, _ = m.Update(keyMsg("/"))
	for _, k := range []string{"b", "a", "t"} {
		m, _ = m.Update(keyMsg(k))
	}
	m, _ = m.Update(keyMsg("enter"))

	got := m.visible()
	if len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("visible = %+v, want only c2", got)
	}
	view := m.View()
	if strings.Contains(view, "Where is my order?") {
		t.Errorf("filtered conversation shown:\n%s", view)
	}
	if m.unread() != 2 {
		t.Errorf("unread = %d, search must not change the inbox count", m.unread())
	}
	if _, cmd := m.Update(keyMsg("enter")); cmd == nil {
		t.Error("enter should open the matching conversation")
	}
}

func TestMessagesSearchNoMatch(t *testing.T) {
	m := newTestMessagesModel()
	m.query = "refund"
	if !strings.Contains(m.View(), `no conversations match "refund"`) {
		t.Errorf("missing no-match state:\n%s", m.View())
	}
	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Error("enter with no match should do nothing")
	}
}
