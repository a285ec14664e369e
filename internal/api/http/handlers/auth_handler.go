package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// AuthHandler exposes the login and logout endpoints.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName}
}

// Login handles POST /auth/login. On success the access token travels in
// the Authorization response header and the refresh token in an HTTP-only
// cookie whose max-age matches the refresh TTL.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewBadRequest("username and password required")
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderAuthorization, "Bearer "+result.AccessToken)
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    result.RefreshToken,
		MaxAge:   int(result.RefreshTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(dto.NewSuccess(http.StatusOK, "LOGIN_SUCCESS", "login succeeded", dto.LoginResponse{
		Username:          result.Principal.Username,
		IsProfileComplete: result.Principal.ProfileComplete,
	}))
}

// Logout handles POST /auth/logout. It reads the refresh cookie, revokes
// the matching session and expires the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cookieName)
	if refreshToken == "" {
		return apperrors.NewBadRequest("refresh cookie required")
	}

	if err := h.auth.Logout(c.UserContext(), refreshToken); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(dto.NewSuccess(http.StatusOK, "LOGOUT_SUCCESS", "logout succeeded", nil))
}
