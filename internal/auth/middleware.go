package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/domain"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

const principalKey = "auth_principal"

// TokenValidator runs on every request before routing. A missing bearer
// credential leaves the request anonymous; a present but expired, malformed
// or mis-categorized token fails the whole request with 401, even on routes
// that tolerate anonymous callers. Callers must not silently fall back to
// anonymous just because their token expired.
type TokenValidator struct {
	codec *TokenCodec
}

// NewTokenValidator constructs the validation middleware.
func NewTokenValidator(codec *TokenCodec) *TokenValidator {
	return &TokenValidator{codec: codec}
}

// Handle extracts and validates a bearer access token.
func (m *TokenValidator) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.codec.ParseClaims(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Expired() {
		return apperrors.NewUnauthorized("token expired")
	}
	if claims.Category != domain.TokenCategoryAccess {
		return apperrors.NewUnauthorized("access token required")
	}

	c.Locals(principalKey, &Principal{
		Username: claims.Subject,
		Role:     string(claims.Role),
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
