package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/api/http/handlers"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/observability"
	"github.com/spec-kit/membership-service/internal/persistence"
	"github.com/spec-kit/membership-service/internal/service"
	"github.com/spec-kit/membership-service/internal/session"
)

const refreshCookie = "refresh"

type fakeIdentitySource struct {
	records map[string]*auth.IdentityRecord
}

func (f *fakeIdentitySource) Lookup(_ context.Context, username string) (*auth.IdentityRecord, error) {
	return f.records[username], nil
}

type testEnv struct {
	app      *fiber.App
	svc      *service.AuthService
	sessions session.Store
}

func newTestApp(t *testing.T) (*testEnv, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewRedisStore(client, "session:")

	hash, err := auth.HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	identities := &fakeIdentitySource{records: map[string]*auth.IdentityRecord{
		"alice": {
			Username:        "alice",
			PasswordHash:    hash,
			Role:            string(domain.RoleUser),
			ProfileComplete: true,
			Active:          true,
		},
	}}

	authCfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 10,
		RefreshTokenTTLHours:  24,
		SessionKeyPrefix:      "session:",
		RefreshCookieName:     refreshCookie,
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(authCfg, service.AuthDependencies{
		Identities: identities,
		Sessions:   sessions,
		Logger:     logger,
		Metrics:    metrics,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService, refreshCookie),
		Members:        handlers.NewMembersHandler(nil),
		Meetings:       handlers.NewMeetingsHandler(nil),
		TokenValidator: auth.NewTokenValidator(authService.Codec()),
	})

	// test-only route to observe the request-scoped identity
	app.Get("/whoami", func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"username": principal.Username, "role": principal.Role})
	})

	env := &testEnv{app: app, svc: authService, sessions: sessions}
	return env, func() {
		_ = client.Close()
		mr.Close()
	}
}

func doLogin(t *testing.T, app *fiber.App, username, password string) *http.Response {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	return resp
}

func refreshCookieValue(resp *http.Response) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == refreshCookie {
			return c.Value, true
		}
	}
	return "", false
}

func TestLoginLogoutEndToEnd(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	// login: 200, bearer header, refresh cookie, body data
	resp := doLogin(t, env.app, "alice", "correct horse")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	authHeader := resp.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		t.Fatalf("Authorization header = %q", authHeader)
	}
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")

	refreshToken, ok := refreshCookieValue(resp)
	if !ok || refreshToken == "" {
		t.Fatal("missing refresh cookie")
	}

	var envelope struct {
		Status int `json:"status"`
		Data   struct {
			Username          string `json:"username"`
			IsProfileComplete bool   `json:"isProfileComplete"`
		} `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	if envelope.Data.Username != "alice" || !envelope.Data.IsProfileComplete {
		t.Errorf("login data = %+v", envelope.Data)
	}

	// bearer request resolves the identity
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	whoResp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var who map[string]any
	raw, _ = io.ReadAll(whoResp.Body)
	if err := json.Unmarshal(raw, &who); err != nil {
		t.Fatalf("decode whoami %q: %v", raw, err)
	}
	if who["username"] != "alice" {
		t.Errorf("whoami = %v", who)
	}

	// logout: 200, cookie cleared, session deleted
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: refreshToken})
	logoutResp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", logoutResp.StatusCode)
	}
	cleared := false
	for _, c := range logoutResp.Cookies() {
		if c.Name == refreshCookie && c.Value == "" && c.MaxAge <= 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("refresh cookie not cleared")
	}
	if _, found, _ := env.sessions.Get(context.Background(), "alice"); found {
		t.Error("session record survived logout")
	}

	// logout retry with the same token: 401
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: refreshToken})
	retryResp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("logout retry: %v", err)
	}
	if retryResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("logout retry status = %d, want 401", retryResp.StatusCode)
	}
}

func TestLoginFailureIsUniform401(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	for _, tc := range []struct{ username, password string }{
		{"alice", "wrong"},
		{"mallory", "whatever"},
	} {
		resp := doLogin(t, env.app, tc.username, tc.password)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("login(%s) status = %d, want 401", tc.username, resp.StatusCode)
		}
		var envelope struct {
			Status    int    `json:"status"`
			Error     string `json:"error"`
			Code      string `json:"code"`
			Message   string `json:"message"`
			Timestamp string `json:"timestamp"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if envelope.Message != "invalid credentials" {
			t.Errorf("message = %q; must not leak which credential was wrong", envelope.Message)
		}
		if envelope.Timestamp == "" {
			t.Error("error envelope missing timestamp")
		}
	}
}

func TestLoginMalformedPayload(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLogoutWithoutCookie(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnonymousRequestPasses(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 for anonymous request", resp.StatusCode)
	}
}

func TestExpiredAccessTokenFailsAnonymousTolerantRoute(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	expired, _, err := env.svc.Codec().Issue(domain.TokenCategoryAccess, "alice", domain.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 (no silent downgrade to anonymous)", resp.StatusCode)
	}
}

func TestRefreshTokenRejectedAsBearer(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	resp := doLogin(t, env.app, "alice", "correct horse")
	refreshToken, ok := refreshCookieValue(resp)
	if !ok {
		t.Fatal("missing refresh cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	whoResp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if whoResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for refresh token in bearer slot", whoResp.StatusCode)
	}
}

func TestGarbageBearerToken(t *testing.T) {
	env, cleanup := newTestApp(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
