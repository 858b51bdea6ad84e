package domain

import "time"

// Conversation statuses.
const (
	ConversationOpen       = "open"
	ConversationInProgress = "in_progress"
	ConversationWaiting    = "waiting"
	ConversationResolved   = "resolved"
	ConversationClosed     = "closed"
)

// ConversationStatuses lists conversation statuses in workflow order.
var ConversationStatuses = []string{
	ConversationOpen,
	ConversationInProgress,
	ConversationWaiting,
	ConversationResolved,
	ConversationClosed,
}

// Conversation is a customer support thread.
type Conversation struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email"`
	Subject        string    `json:"subject"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"` // "low", "medium", "high", "urgent"
	RelatedOrderID string    `json:"related_order_id,omitempty"`
	Messages       []Message `json:"messages"`
	UnreadCount    int       `json:"unread_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Message is a single entry in a conversation.
type Message struct {
	ID         string    `json:"id"`
	SenderType string    `json:"sender_type"` // "customer" or "admin"
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	IsRead     bool      `json:"is_read"`
}

// NextConversationStatus cycles through ConversationStatuses, wrapping at the end.
// Unknown statuses restart at open.
func NextConversationStatus(current string) string {
	for i, s := range ConversationStatuses {
		if s == current {
			return ConversationStatuses[(i+1)%len(ConversationStatuses)]
		}
	}
	return ConversationOpen
}
