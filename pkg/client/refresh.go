package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	errNoRefreshToken   = errors.New("no refresh token stored")
	errNoAccessTokenRes = errors.New("refresh response carried no access token")
)

// refresh exchanges the stored refresh token for a new access token and
// writes it to the store. Concurrent callers holding the same refresh token
// share one exchange; each caller still waits for it to finish before
// replaying its own request.
func (c *Client) refresh(ctx context.Context, reqID string) error {
	sess := c.readSession(ctx)
	if sess == nil || sess.RefreshToken == "" {
		return errNoRefreshToken
	}
	refreshToken := sess.RefreshToken

	// Shared by all waiters; not bound to any one caller's cancellation.
	exchangeCtx := context.WithoutCancel(ctx)
	ch := c.refreshes.DoChan(refreshToken, func() (any, error) {
		return nil, c.exchangeRefreshToken(exchangeCtx, refreshToken, reqID)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.log.Debugw("joined in-flight refresh", "request_id", reqID)
		}
		return res.Err
	}
}

func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken, reqID string) error {
	c.log.Debugw("refreshing access token", "request_id", reqID)

	req := Request{
		Method:       http.MethodPost,
		Endpoint:     refreshPath,
		Body:         map[string]string{"refresh_token": refreshToken},
		authExchange: true,
	}
	raw, status, err := c.execute(ctx, req, reqID, false)
	if err != nil {
		return fmt.Errorf("refresh exchange: %w", err)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("refresh exchange: %w", &MalformedResponseError{Status: status, Err: err})
	}
	if resp.AccessToken == "" {
		return errNoAccessTokenRes
	}

	// UpdateAccessToken refuses when the user (or any other field) is gone.
	if err := c.store.UpdateAccessToken(ctx, resp.AccessToken); err != nil {
		return fmt.Errorf("refresh exchange: store token: %w", err)
	}
	c.log.Infow("access token refreshed", "request_id", reqID)
	return nil
}
