package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/observability"
	"github.com/spec-kit/membership-service/internal/session"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

type fakeIdentitySource struct {
	records map[string]*auth.IdentityRecord
}

func (f *fakeIdentitySource) Lookup(_ context.Context, username string) (*auth.IdentityRecord, error) {
	return f.records[username], nil
}

// countingStore wraps a session store and counts Get calls.
type countingStore struct {
	session.Store
	gets int
}

func (c *countingStore) Get(ctx context.Context, subject string) (string, bool, error) {
	c.gets++
	return c.Store.Get(ctx, subject)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 10,
		RefreshTokenTTLHours:  24,
		SessionKeyPrefix:      "session:",
	}
}

func newTestAuthService(t *testing.T, identities auth.IdentitySource) (*AuthService, *countingStore, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := &countingStore{Store: session.NewRedisStore(client, "session:")}

	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		Identities: identities,
		Sessions:   store,
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	})
	return svc, store, func() {
		_ = client.Close()
		mr.Close()
	}
}

func aliceSource(t *testing.T) *fakeIdentitySource {
	t.Helper()
	hash, err := auth.HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &fakeIdentitySource{records: map[string]*auth.IdentityRecord{
		"alice": {
			Username:        "alice",
			PasswordHash:    hash,
			Role:            string(domain.RoleUser),
			ProfileComplete: true,
			Active:          true,
		},
	}}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	return apperrors.ToDomainError(err).Code
}

func TestLoginIssuesTokenPairAndSession(t *testing.T) {
	svc, store, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	ctx := context.Background()
	result, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if result.Principal.Username != "alice" || !result.Principal.ProfileComplete {
		t.Errorf("principal = %+v", result.Principal)
	}

	accessClaims, err := svc.Codec().ParseClaims(result.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if accessClaims.Category != domain.TokenCategoryAccess {
		t.Errorf("access category = %q", accessClaims.Category)
	}

	refreshClaims, err := svc.Codec().ParseClaims(result.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refreshClaims.Category != domain.TokenCategoryRefresh {
		t.Errorf("refresh category = %q", refreshClaims.Category)
	}

	stored, found, err := store.Get(ctx, "alice")
	if err != nil || !found {
		t.Fatalf("session record: found=%v err=%v", found, err)
	}
	if stored != result.RefreshToken {
		t.Error("session record does not hold the issued refresh token")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, store, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	ctx := context.Background()
	_, err := svc.Login(ctx, "alice", "wrong")
	if code := errCode(t, err); code != "BAD_CREDENTIALS" {
		t.Errorf("code = %q, want BAD_CREDENTIALS", code)
	}
	if apperrors.ToDomainError(err).HTTPStatus != 401 {
		t.Error("bad credentials must surface as 401")
	}

	if _, found, _ := store.Get(ctx, "alice"); found {
		t.Error("failed login must not write a session record")
	}
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	svc, _, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	_, err := svc.Login(context.Background(), "mallory", "whatever")
	if code := errCode(t, err); code != "BAD_CREDENTIALS" {
		t.Errorf("code = %q, want BAD_CREDENTIALS", code)
	}
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	source := aliceSource(t)
	source.records["alice"].Active = false
	svc, _, cleanup := newTestAuthService(t, source)
	defer cleanup()

	_, err := svc.Login(context.Background(), "alice", "correct horse")
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Errorf("code = %q, want FORBIDDEN", code)
	}
}

func TestSecondLoginInvalidatesFirstRefreshToken(t *testing.T) {
	svc, _, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	ctx := context.Background()
	first, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if err := svc.Logout(ctx, first.RefreshToken); err == nil {
		t.Fatal("first refresh token should be rejected after second login")
	} else if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}

	if err := svc.Logout(ctx, second.RefreshToken); err != nil {
		t.Fatalf("second refresh token should still revoke: %v", err)
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	svc, store, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	ctx := context.Background()
	result, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, result.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, found, _ := store.Get(ctx, "alice"); found {
		t.Error("session record survived logout")
	}

	// a revoked token cannot revoke again
	if err := svc.Logout(ctx, result.RefreshToken); err == nil {
		t.Fatal("second logout with the same token should fail")
	} else if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
}

func TestLogoutMismatchKeepsSession(t *testing.T) {
	svc, store, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	ctx := context.Background()
	result, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// decodes fine but is not the stored session value
	stray, _, err := svc.Codec().Issue(domain.TokenCategoryRefresh, "alice", domain.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Logout(ctx, stray); err == nil {
		t.Fatal("stray refresh token should be rejected")
	} else if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}

	stored, found, err := store.Get(ctx, "alice")
	if err != nil || !found {
		t.Fatalf("session must survive: found=%v err=%v", found, err)
	}
	if stored != result.RefreshToken {
		t.Error("stored session changed")
	}
}

func TestLogoutRejectsAccessToken(t *testing.T) {
	svc, _, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	ctx := context.Background()
	result, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, result.AccessToken); err == nil {
		t.Fatal("access token must not revoke a session")
	} else if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
}

func TestLogoutExpiredTokenSkipsCacheLookup(t *testing.T) {
	svc, store, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	expired, _, err := svc.Codec().Issue(domain.TokenCategoryRefresh, "alice", domain.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	store.gets = 0
	if err := svc.Logout(context.Background(), expired); err == nil {
		t.Fatal("expired refresh token should be rejected")
	} else if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
	if store.gets != 0 {
		t.Errorf("cache lookups = %d, want 0 for expired token", store.gets)
	}
}

func TestLogoutMalformedToken(t *testing.T) {
	svc, _, cleanup := newTestAuthService(t, aliceSource(t))
	defer cleanup()

	if err := svc.Logout(context.Background(), "garbage"); err == nil {
		t.Fatal("malformed token should be rejected")
	} else if code := errCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
}

func TestSessionStoreFailureIs5xx(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		Identities: aliceSource(t),
		Sessions:   session.NewRedisStore(client, "session:"),
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	})

	mr.Close()

	_, err = svc.Login(context.Background(), "alice", "correct horse")
	domainErr := apperrors.ToDomainError(err)
	if domainErr == nil {
		t.Fatal("expected error")
	}
	if domainErr.Code != "SESSION_STORE_UNAVAILABLE" {
		t.Errorf("code = %q, want SESSION_STORE_UNAVAILABLE", domainErr.Code)
	}
	if domainErr.HTTPStatus < 500 {
		t.Errorf("status = %d, want 5xx (never unauthorized)", domainErr.HTTPStatus)
	}
}
