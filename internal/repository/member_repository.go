package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/membership-service/internal/domain"
)

// MemberRepository defines persistence access for members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	Update(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (username, name, password_hash, role, profile_complete, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		member.Username,
		member.Name,
		member.PasswordHash,
		member.Role,
		member.ProfileComplete,
		member.Status,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	const query = `
        UPDATE members SET name=$1, password_hash=$2, role=$3, profile_complete=$4, status=$5, updated_at=NOW()
        WHERE username=$6`

	cmd, err := r.pool.Exec(ctx, query,
		member.Name,
		member.PasswordHash,
		member.Role,
		member.ProfileComplete,
		member.Status,
		member.Username,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	const query = `
        SELECT id, username, name, password_hash, role, profile_complete, status, created_at, updated_at
        FROM members WHERE id=$1`

	return r.scanOne(ctx, query, id)
}

func (r *memberRepository) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	const query = `
        SELECT id, username, name, password_hash, role, profile_complete, status, created_at, updated_at
        FROM members WHERE username=$1`

	return r.scanOne(ctx, query, username)
}

func (r *memberRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Member, error) {
	var member domain.Member
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&member.ID,
		&member.Username,
		&member.Name,
		&member.PasswordHash,
		&member.Role,
		&member.ProfileComplete,
		&member.Status,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}
