// Package identity establishes who is using the board. Users either present a
// signed custom token or get a fresh anonymous identifier.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrNoSecret is returned when token sign-in is attempted without a
	// signing secret configured.
	ErrNoSecret = errors.New("identity: no signing secret configured")
)

// Provider issues user identifiers.
type Provider interface {
	// SignIn verifies token and returns the identifier it names.
	SignIn(ctx context.Context, token string) (string, error)
	// SignInAnonymously returns a new identifier not tied to any credential.
	SignInAnonymously(ctx context.Context) (string, error)
}

// TokenProvider verifies HS256 custom tokens whose subject is the user
// identifier.
type TokenProvider struct {
	Secret []byte
	Issuer string
	// Now is used for token issuing; nil means time.Now.
	Now func() time.Time
}

var _ Provider = (*TokenProvider)(nil)

// NewTokenProvider returns a provider signing and verifying with secret.
func NewTokenProvider(secret, issuer string) *TokenProvider {
	return &TokenProvider{Secret: []byte(secret), Issuer: issuer}
}

func (p *TokenProvider) SignIn(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(p.Secret) == 0 {
		return "", ErrNoSecret
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}
	if p.Issuer != "" && !claims.VerifyIssuer(p.Issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

func (p *TokenProvider) SignInAnonymously(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}

// Issue mints a token for uid valid for ttl. A zero ttl means no expiry.
func (p *TokenProvider) Issue(uid string, ttl time.Duration) (string, error) {
	if len(p.Secret) == 0 {
		return "", ErrNoSecret
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", errors.New("identity: uid required")
	}
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	claims := jwt.RegisteredClaims{
		Subject:  uid,
		Issuer:   p.Issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.Secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return signed, nil
}
