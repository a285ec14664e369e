package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/membership-service/internal/domain"
)

// ErrMalformedToken is returned when a token's signature does not verify or
// required claims are absent. Expiry is not malformation; see IsExpired.
var ErrMalformedToken = errors.New("malformed token")

// TokenCodec issues and decodes signed, expiring tokens. It is pure over
// the token bytes and the signing secret; it never touches the session
// store.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec builds a codec over the signing secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Claims describes the JWT payload.
type Claims struct {
	Category domain.TokenCategory `json:"category"`
	Role     domain.MemberRole    `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the subject with the given category
// and validity window.
func (tc *TokenCodec) Issue(category domain.TokenCategory, subject string, role domain.MemberRole, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Category: category,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps tokens minted within the same second distinct,
			// so a re-login always invalidates the prior session value.
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseClaims verifies the signature and returns the claims. Expired tokens
// still parse; callers check IsExpired separately so an expired token can be
// told apart from a forged one.
func (tc *TokenCodec) ParseClaims(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tc.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformedToken
	}
	if claims.Subject == "" || claims.Category == "" || claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// IsExpired reports whether a structurally valid token has passed its
// expiry. It does not fail on an expired token.
func (tc *TokenCodec) IsExpired(tokenStr string) (bool, error) {
	claims, err := tc.ParseClaims(tokenStr)
	if err != nil {
		return false, err
	}
	return claims.Expired(), nil
}

// Expired reports whether the claims' expiry has passed.
func (c *Claims) Expired() bool {
	return !time.Now().Before(c.ExpiresAt.Time)
}
