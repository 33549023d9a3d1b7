package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

const defaultSessionTTL = 60 * 24 * time.Hour

// SessionService signs users in through the identity provider and issues
// HS256 session tokens that are verified locally on every request.
type SessionService struct {
	identity   ports.IdentityProvider
	roles      ports.RoleRepository
	revoked    ports.SessionRevocationStore
	jwtSecret  string
	sessionTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSessionService returns a SessionService. revoked may be nil, in which
// case logout only clears the provider session.
func NewSessionService(
	identity ports.IdentityProvider,
	roles ports.RoleRepository,
	revoked ports.SessionRevocationStore,
	jwtSecret string,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *SessionService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &SessionService{
		identity:   identity,
		roles:      roles,
		revoked:    revoked,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SessionService) RedirectURL(ctx context.Context, provider string) (string, error) {
	url, err := s.identity.RedirectURL(ctx, provider)
	if err != nil {
		return "", fmt.Errorf("redirect url: %w", err)
	}
	return url, nil
}

// Create exchanges an OAuth code for a provider session and issues a session token.
func (s *SessionService) Create(ctx context.Context, code string) (*ports.Session, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: no authorization code provided", domain.ErrValidation)
	}

	providerSession, err := s.identity.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	user, err := s.identity.FetchUser(ctx, providerSession)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session, err := s.issue(*user, providerSession)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Str("session_id", session.ID).Msg("session created")
	return session, nil
}

// Authenticate verifies a session token and returns the session it encodes.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*ports.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}

	session := &ports.Session{
		Token: token,
		ID:    claimString(claims, "jti"),
		User: domain.User{
			ID:      claimString(claims, "sub"),
			Email:   claimString(claims, "email"),
			Name:    claimString(claims, "name"),
			Picture: claimString(claims, "picture"),
		},
		ProviderSession: claimString(claims, "sid"),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	if session.User.ID == "" || session.ID == "" {
		return nil, domain.ErrUnauthorized
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, session.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("revocation check failed, accepting session")
		} else if revoked {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrSessionRevoked)
		}
	}

	return session, nil
}

// Logout ends the session both at the provider and locally. Invalid or
// already-revoked tokens are ignored.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	session, err := s.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil
		}
		return err
	}

	if session.ProviderSession != "" {
		if err := s.identity.DeleteSession(ctx, session.ProviderSession); err != nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete provider session")
		}
	}

	if s.revoked != nil {
		ttl := session.ExpiresAt.Sub(s.now())
		if ttl > 0 {
			if err := s.revoked.Revoke(ctx, session.ID, ttl); err != nil {
				s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to revoke session")
			}
		}
	}

	s.logger.Info().Str("user_id", session.User.ID).Str("session_id", session.ID).Msg("session ended")
	return nil
}

// IsAdmin consults the role store for the admin role.
func (s *SessionService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	ok, err := s.roles.HasRole(ctx, userID, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("role lookup: %w", err)
	}
	return ok, nil
}

func (s *SessionService) issue(user domain.User, providerSession string) (*ports.Session, error) {
	now := s.now()
	session := &ports.Session{
		ID:              uuid.NewString(),
		User:            user,
		ExpiresAt:       now.Add(s.sessionTTL),
		ProviderSession: providerSession,
	}

	claims := jwt.MapClaims{
		"sub":     user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"picture": user.Picture,
		"sid":     providerSession,
		"jti":     session.ID,
		"iat":     now.Unix(),
		"exp":     session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	session.Token = signed
	return session, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
