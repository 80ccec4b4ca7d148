package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "financetracker/internal/errors"
)

// DefaultTokenTTL is used when TokenConfig.TTL is zero.
const DefaultTokenTTL = time.Hour

var (
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = fmt.Errorf("%w: token expired", apperrors.ErrInvalidToken)
	// ErrTokenRevoked is returned for tokens that were logged out.
	ErrTokenRevoked = fmt.Errorf("%w: token revoked", apperrors.ErrInvalidToken)
)

// TokenConfig carries the signing secret and lifetime of issued tokens.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Claims represents JWT claims. The subject holds the username.
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token with the metadata callers echo back to clients.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a token service from cfg.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTokenTTL
	}

	s := &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL reports the lifetime given to new tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user.
func (s *TokenService) Issue(userID uint, username string) (string, error) {
	issued, err := s.IssueToken(userID, username)
	if err != nil {
		return "", err
	}
	return issued.Token, nil
}

// IssueToken signs a token and also returns its ID and expiry. The username
// becomes the subject and must not be empty.
func (s *TokenService) IssueToken(userID uint, username string) (*IssuedToken, error) {
	if username == "" {
		return nil, errors.New("token subject must not be empty")
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssuedToken{Token: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse validates signature, structure and time claims and returns the claims.
// Every failure wraps errors.ErrInvalidToken.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims, err := s.parseSigned(tokenString)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, ErrTokenExpired
	}
	if !claims.VerifyNotBefore(now, false) {
		return nil, fmt.Errorf("%w: token not valid yet", apperrors.ErrInvalidToken)
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", apperrors.ErrInvalidToken)
	}
	return claims, nil
}

// VerifyAndExtractUsername returns the subject of a valid token.
func (s *TokenService) VerifyAndExtractUsername(tokenString string) (string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", apperrors.ErrInvalidToken)
	}
	return claims.Subject, nil
}

// IsExpired reports whether a correctly signed token is past its expiry.
// Tokens that cannot be verified count as expired.
func (s *TokenService) IsExpired(tokenString string) bool {
	claims, err := s.parseSigned(tokenString)
	if err != nil {
		return true
	}
	return !claims.VerifyExpiresAt(s.now(), true)
}

// parseSigned checks the signature only; time claims are checked against s.now.
func (s *TokenService) parseSigned(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
