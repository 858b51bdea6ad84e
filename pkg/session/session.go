package session

import (
	"context"
	"errors"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// Fixed names of the three persisted values.
const (
	KeyAccessToken  = "justcom_access_token"
	KeyRefreshToken = "justcom_refresh_token"
	KeyUser         = "justcom_user"
)

// ErrNoSession is returned by UpdateAccessToken when there is no complete
// session to update.
var ErrNoSession = errors.New("session: no active session")

// Session is the authenticated identity bound to the client.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         domain.User `json:"user"`
}

// Store is the single source of truth for the session triple.
//
// Read returns (nil, nil) when no complete session is stored.
// UpdateAccessToken leaves the refresh token and user untouched and returns
// ErrNoSession without writing anything if no session exists.
type Store interface {
	Read(ctx context.Context) (*Session, error)
	Write(ctx context.Context, accessToken, refreshToken string, user domain.User) error
	Clear(ctx context.Context) error
	UpdateAccessToken(ctx context.Context, accessToken string) error
}

// complete reports whether all three values are present.
func complete(access, refresh string, user *domain.User) bool {
	return access != "" && refresh != "" && user != nil
}
