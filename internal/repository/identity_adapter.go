package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
)

// identityAdapter bridges the member repository into the narrow capability
// set the authentication pipeline consumes.
type identityAdapter struct {
	members MemberRepository
}

// NewIdentityAdapter returns an auth.IdentitySource backed by the member
// repository.
func NewIdentityAdapter(members MemberRepository) auth.IdentitySource {
	return &identityAdapter{members: members}
}

func (a *identityAdapter) Lookup(ctx context.Context, username string) (*auth.IdentityRecord, error) {
	member, err := a.members.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.IdentityRecord{
		Username:        member.Username,
		PasswordHash:    member.PasswordHash,
		Role:            string(member.Role),
		ProfileComplete: member.ProfileComplete,
		Active:          member.Status == domain.MemberStatusActive,
	}, nil
}
