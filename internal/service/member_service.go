package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/events"
	"github.com/spec-kit/membership-service/internal/repository"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// MemberService coordinates member registration and profile management.
type MemberService struct {
	members    repository.MemberRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewMemberService builds the service.
func NewMemberService(members repository.MemberRepository, dispatcher events.Dispatcher, bcryptCost int) *MemberService {
	return &MemberService{members: members, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// Register creates a new member account.
func (s *MemberService) Register(ctx context.Context, username, password string) (*domain.Member, error) {
	if _, err := s.members.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	member := &domain.Member{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.MemberStatusActive,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventMemberRegistered,
		Subject:   member.Username,
		Timestamp: time.Now(),
		Payload:   events.MemberRegisteredPayload{Username: member.Username},
	})
	return member, nil
}

// GetByUsername loads a member.
func (s *MemberService) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	member, err := s.members.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// CompleteProfile fills in the member's display name and marks the profile
// complete.
func (s *MemberService) CompleteProfile(ctx context.Context, username, name string) (*domain.Member, error) {
	member, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	member.Name = name
	member.ProfileComplete = true
	if err := s.members.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}
