package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/observability"
	"github.com/spec-kit/membership-service/internal/session"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// AuthService coordinates the credential authentication and revocation
// stages: credential verification, token-pair issuance, session persistence
// and logout.
type AuthService struct {
	identities auth.IdentitySource
	sessions   session.Store
	codec      *auth.TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// AuthDependencies bundles collaborator requirements for the auth service.
type AuthDependencies struct {
	Identities auth.IdentitySource
	Sessions   session.Store
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// LoginResult carries everything the transport layer needs to answer a
// successful login.
type LoginResult struct {
	Principal    auth.Principal
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.Identities,
		sessions:   deps.Sessions,
		codec:      auth.NewTokenCodec(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// Login verifies credentials and issues an access/refresh token pair. On
// success the refresh token overwrites the subject's session record, so a
// new login invalidates any earlier refresh token for the same subject.
// Exactly one session write happens per successful login; none on failure.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	record, err := s.identities.Lookup(ctx, username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if record == nil {
		s.logger.Info("login rejected: unknown username", zap.String("username", username))
		s.metrics.RecordLogin("bad_credentials")
		return nil, apperrors.NewBadCredentials()
	}
	if !record.Active {
		s.logger.Info("login rejected: account suspended", zap.String("username", username))
		s.metrics.RecordLogin("suspended")
		return nil, apperrors.NewForbidden("account suspended")
	}
	if err := auth.ComparePassword(record.PasswordHash, password); err != nil {
		s.logger.Info("login rejected: password mismatch", zap.String("username", username))
		s.metrics.RecordLogin("bad_credentials")
		return nil, apperrors.NewBadCredentials()
	}

	role := domain.MemberRole(record.Role)
	accessToken, _, err := s.codec.Issue(domain.TokenCategoryAccess, record.Username, role, s.accessTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refreshToken, _, err := s.codec.Issue(domain.TokenCategoryRefresh, record.Username, role, s.refreshTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.sessions.Set(ctx, record.Username, refreshToken, s.refreshTTL); err != nil {
		return nil, s.mapSessionErr(err)
	}

	s.metrics.RecordLogin("success")
	return &LoginResult{
		Principal: auth.Principal{
			Username:        record.Username,
			Role:            record.Role,
			ProfileComplete: record.ProfileComplete,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshTTL:   s.refreshTTL,
	}, nil
}

// Logout revokes the session matching the presented refresh token. The
// token is validated before any cache access; only the token equal to the
// currently stored session value can delete it.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.ParseClaims(refreshToken)
	if err != nil {
		return apperrors.NewUnauthorized("invalid refresh token")
	}
	if claims.Category != domain.TokenCategoryRefresh {
		return apperrors.NewUnauthorized("refresh token required")
	}
	if claims.Expired() {
		return apperrors.NewUnauthorized("refresh token expired")
	}

	stored, found, err := s.sessions.Get(ctx, claims.Subject)
	if err != nil {
		return s.mapSessionErr(err)
	}
	if !found {
		return apperrors.NewUnauthorized("no active session")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		s.logger.Info("logout rejected: stale refresh token", zap.String("username", claims.Subject))
		return apperrors.NewUnauthorized("session mismatch")
	}

	if err := s.sessions.Delete(ctx, claims.Subject); err != nil {
		return s.mapSessionErr(err)
	}

	s.logger.Info("session revoked", zap.String("username", claims.Subject))
	return nil
}

// Codec exposes the token codec for the validation middleware.
func (s *AuthService) Codec() *auth.TokenCodec {
	return s.codec
}

func (s *AuthService) mapSessionErr(err error) error {
	if errors.Is(err, session.ErrStoreUnavailable) {
		s.logger.Error("session store failure", zap.Error(err))
		return apperrors.NewSessionStoreUnavailable(err)
	}
	return apperrors.MapError(err)
}
