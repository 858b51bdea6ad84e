package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// ListConversations fetches the support inbox.
func (c *Client) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	if err := c.getList(ctx, "/admin/conversations", "conversations", &convs); err != nil {
		return nil, fmt.Errorf("client.ListConversations: %w", err)
	}
	return convs, nil
}

// GetConversation fetches a conversation with its messages.
func (c *Client) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: "/admin/conversations/" + url.PathEscape(id)}, &conv); err != nil {
		return nil, fmt.Errorf("client.GetConversation: %w", err)
	}
	return &conv, nil
}

// SendMessage posts an admin reply to a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (*domain.Message, error) {
	var msg domain.Message
	req := Request{
		Method:   http.MethodPost,
		Endpoint: "/admin/conversations/" + url.PathEscape(conversationID) + "/messages",
		Body:     map[string]string{"content": content},
	}
	if err := c.Do(ctx, req, &msg); err != nil {
		return nil, fmt.Errorf("client.SendMessage: %w", err)
	}
	return &msg, nil
}

// UpdateConversationStatus sets a conversation's status.
func (c *Client) UpdateConversationStatus(ctx context.Context, id, status string) (*domain.Conversation, error) {
	var conv domain.Conversation
	req := Request{
		Method:   http.MethodPut,
		Endpoint: "/admin/conversations/" + url.PathEscape(id) + "/status",
		Body:     map[string]string{"status": status},
	}
	if err := c.Do(ctx, req, &conv); err != nil {
		return nil, fmt.Errorf("client.UpdateConversationStatus: %w", err)
	}
	return &conv, nil
}
