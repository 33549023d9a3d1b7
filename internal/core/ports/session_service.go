package ports

import (
	"context"
	"time"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

// Session is a signed-in browser session issued after an OAuth code exchange.
type Session struct {
	Token     string
	ID        string
	User      domain.User
	ExpiresAt time.Time
	// ProviderSession is the identity provider's own session token.
	ProviderSession string
}

// SessionService implements sign-in, session verification and logout.
type SessionService interface {
	RedirectURL(ctx context.Context, provider string) (string, error)
	Create(ctx context.Context, code string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, token string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
