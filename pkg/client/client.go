package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/justcom/justcom-admin/pkg/domain"
	"github.com/justcom/justcom-admin/pkg/session"
)

// DefaultBaseURL is the production JUSTCOM API.
const DefaultBaseURL = "https://justcom-api-production.up.railway.app/api/v1"

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
	logoutPath  = "/auth/logout"
)

// Client is the JUSTCOM admin API client. It attaches the stored access token
// to every request and, on a 401, refreshes it once and replays the request.
type Client struct {
	baseURL    string
	store      session.Store
	httpClient *http.Client
	log        *zap.SugaredLogger
	onExpired  func()
	refreshes  singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every HTTP round trip, including the refresh exchange.
// The client set by WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithSessionExpiredHook registers fn to run after the session is cleared
// because it could not be refreshed.
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

// New creates a new API client backed by store.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		store:   store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs one logical call: the request, and at most one token refresh
// followed by at most one replay. out may be nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	reqID := uuid.NewString()

	raw, status, err := c.execute(ctx, req, reqID, true)
	if errors.Is(err, errUnauthorized) {
		if rerr := c.refresh(ctx, reqID); rerr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.expire(ctx, reqID, rerr)
			return ErrSessionExpired
		}
		raw, status, err = c.execute(ctx, req, reqID, false)
		if errors.Is(err, ErrSessionExpired) {
			c.expire(ctx, reqID, errors.New("replayed request rejected"))
			return ErrSessionExpired
		}
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Status: status, Err: err}
	}
	return nil
}

// Login exchanges credentials for a session and stores it. No refresh logic
// applies: a rejected login is returned as an *APIError.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	raw, status, err := c.execute(ctx, Request{Method: http.MethodPost, Endpoint: loginPath, Body: body, authExchange: true}, uuid.NewString(), false)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}

	var resp domain.AuthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", &MalformedResponseError{Status: status, Err: err})
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("client.Login: %w", &MalformedResponseError{Status: status, Err: errors.New("incomplete auth response")})
	}
	if err := c.store.Write(ctx, resp.AccessToken, resp.RefreshToken, resp.User); err != nil {
		return nil, fmt.Errorf("client.Login: store session: %w", err)
	}
	c.log.Infow("logged in", "user_id", resp.User.ID, "email", resp.User.Email)
	return &resp, nil
}

// Logout tells the backend to end the session when one exists, then clears
// local state whatever the backend said.
func (c *Client) Logout(ctx context.Context) error {
	if sess := c.readSession(ctx); sess != nil {
		reqID := uuid.NewString()
		if _, _, err := c.execute(ctx, Request{Method: http.MethodPost, Endpoint: logoutPath}, reqID, false); err != nil {
			c.log.Warnw("logout request failed", "request_id", reqID, "error", err)
		}
	}
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a complete session is stored.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.readSession(ctx) != nil
}

// Session returns the stored session, or nil when logged out.
func (c *Client) Session(ctx context.Context) *session.Session {
	return c.readSession(ctx)
}

// CurrentUser returns the signed-in user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	sess, err := c.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.CurrentUser: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	return &sess.User, nil
}

// readSession treats an unreadable store as no session.
func (c *Client) readSession(ctx context.Context) *session.Session {
	sess, err := c.store.Read(ctx)
	if err != nil {
		c.log.Warnw("session store read failed", "error", err)
		return nil
	}
	return sess
}

// expire clears the session after an unrecoverable auth failure.
func (c *Client) expire(ctx context.Context, reqID string, cause error) {
	c.log.Infow("session expired", "request_id", reqID, "cause", cause)
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Warnw("session store clear failed", "request_id", reqID, "error", err)
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}
