package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "financetracker/internal/errors"
)

// ErrIdentityNotFound is returned by an IdentityStore when no user matches.
var ErrIdentityNotFound = errors.New("identity not found")

// Identity is the authenticated caller.
type Identity struct {
	ID        uint
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// IdentityStore resolves users for authentication. A username must map to the
// same id for the lifetime of any token issued for it.
type IdentityStore interface {
	FindByUsername(ctx context.Context, username string) (*Identity, error)
	FindByID(ctx context.Context, id uint) (*Identity, error)
}

// OwnerLookup reports which user owns a resource.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, resourceID uint) (uint, error)
}

// Guard authenticates bearer tokens and enforces resource ownership.
type Guard struct {
	tokens     *TokenService
	identities IdentityStore
	revoked    RevocationList
	now        func() time.Time
}

// NewGuard creates a guard. revoked may be nil to disable revocation checks.
func NewGuard(tokens *TokenService, identities IdentityStore, revoked RevocationList) *Guard {
	return &Guard{
		tokens:     tokens,
		identities: identities,
		revoked:    revoked,
		now:        tokens.now,
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(headers http.Header) (string, error) {
	value := strings.TrimSpace(headers.Get("Authorization"))
	if value == "" {
		return "", apperrors.ErrMissingToken
	}
	scheme, token, found := strings.Cut(value, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: authorization scheme must be Bearer", apperrors.ErrInvalidToken)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: bearer presented without token", apperrors.ErrInvalidToken)
	}
	return token, nil
}

// Authenticate resolves the caller from request headers.
func (g *Guard) Authenticate(ctx context.Context, headers http.Header) (*Identity, error) {
	token, err := BearerToken(headers)
	if err != nil {
		return nil, err
	}
	return g.AuthenticateToken(ctx, token)
}

// AuthenticateToken verifies a raw token and loads the identity it names.
func (g *Guard) AuthenticateToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", apperrors.ErrInvalidToken)
	}

	identity, err := g.identities.FindByUsername(ctx, claims.Subject)
	if errors.Is(err, ErrIdentityNotFound) {
		return nil, fmt.Errorf("%w: unknown user", apperrors.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	// A renamed or recreated account must not inherit old tokens.
	if identity.ID != claims.UserID {
		return nil, fmt.Errorf("%w: subject does not match user id", apperrors.ErrInvalidToken)
	}

	if g.revoked != nil && claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return &Identity{
		ID:        identity.ID,
		Username:  identity.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// AuthorizeOwnership allows the caller only when it owns the resource.
func (g *Guard) AuthorizeOwnership(identity *Identity, ownerID uint) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}
	if identity.ID != ownerID {
		return apperrors.ErrNotOwner
	}
	return nil
}

// AuthorizeResource looks up the owner of resourceID and applies
// AuthorizeOwnership. A missing resource yields the lookup's not-found error,
// so callers can tell 404 from 403.
func (g *Guard) AuthorizeResource(ctx context.Context, identity *Identity, owners OwnerLookup, resourceID uint) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}
	ownerID, err := owners.OwnerOf(ctx, resourceID)
	if err != nil {
		return err
	}
	return g.AuthorizeOwnership(identity, ownerID)
}

// Revoke stops the caller's current token from authenticating again. It is a
// no-op when no revocation list is configured.
func (g *Guard) Revoke(ctx context.Context, identity *Identity) error {
	if g.revoked == nil || identity == nil || identity.TokenID == "" {
		return nil
	}
	ttl := identity.ExpiresAt.Sub(g.now())
	if ttl <= 0 {
		return nil
	}
	return g.revoked.Revoke(ctx, identity.TokenID, ttl)
}

// RevocationEnabled reports whether logout can invalidate tokens.
func (g *Guard) RevocationEnabled() bool {
	return g.revoked != nil
}
