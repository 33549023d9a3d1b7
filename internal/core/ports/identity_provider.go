package ports

import (
	"context"
	"time"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

// IdentityProvider is the external users service that owns OAuth and
// provider-side sessions.
type IdentityProvider interface {
	RedirectURL(ctx context.Context, provider string) (string, error)
	// ExchangeCode trades an OAuth authorization code for a provider session token.
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUser(ctx context.Context, sessionToken string) (*domain.User, error)
	DeleteSession(ctx context.Context, sessionToken string) error
}

// SessionRevocationStore remembers logged-out session ids until they expire.
type SessionRevocationStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
