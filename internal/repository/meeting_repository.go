package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/membership-service/internal/domain"
)

// MeetingFilter narrows meeting listings.
type MeetingFilter struct {
	Category  *domain.MeetingCategory
	Status    *domain.MeetingStatus
	ByPopular bool
	Limit     int
	Offset    int
}

// MeetingRepository defines persistence access for meeting posts.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	Update(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	List(ctx context.Context, filter MeetingFilter) ([]*domain.Meeting, error)
	IncrementLikes(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
}

type meetingRepository struct {
	pool *pgxpool.Pool
}

// NewMeetingRepository returns a Postgres-backed implementation.
func NewMeetingRepository(pool *pgxpool.Pool) MeetingRepository {
	return &meetingRepository{pool: pool}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	const query = `
        INSERT INTO meetings (host_username, category, title, content, recruit_count, tech_stacks, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, likes, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		meeting.HostUsername,
		meeting.Category,
		meeting.Title,
		meeting.Content,
		meeting.RecruitCount,
		meeting.TechStacks,
		meeting.Status,
	).Scan(&meeting.ID, &meeting.Likes, &meeting.CreatedAt, &meeting.UpdatedAt)
}

func (r *meetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	const query = `
        UPDATE meetings SET title=$1, content=$2, recruit_count=$3, tech_stacks=$4, status=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		meeting.Title,
		meeting.Content,
		meeting.RecruitCount,
		meeting.TechStacks,
		meeting.Status,
		meeting.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	const query = `
        SELECT id, host_username, category, title, content, recruit_count, tech_stacks, status, likes, created_at, updated_at
        FROM meetings WHERE id=$1`

	var meeting domain.Meeting
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&meeting.ID,
		&meeting.HostUsername,
		&meeting.Category,
		&meeting.Title,
		&meeting.Content,
		&meeting.RecruitCount,
		&meeting.TechStacks,
		&meeting.Status,
		&meeting.Likes,
		&meeting.CreatedAt,
		&meeting.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepository) List(ctx context.Context, filter MeetingFilter) ([]*domain.Meeting, error) {
	query := `
        SELECT id, host_username, category, title, content, recruit_count, tech_stacks, status, likes, created_at, updated_at
        FROM meetings WHERE 1=1`
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += ` AND category=$` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status=$` + strconv.Itoa(len(args))
	}
	if filter.ByPopular {
		query += ` ORDER BY likes DESC, created_at DESC`
	} else {
		query += ` ORDER BY created_at DESC`
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []*domain.Meeting
	for rows.Next() {
		var meeting domain.Meeting
		if err := rows.Scan(
			&meeting.ID,
			&meeting.HostUsername,
			&meeting.Category,
			&meeting.Title,
			&meeting.Content,
			&meeting.RecruitCount,
			&meeting.TechStacks,
			&meeting.Status,
			&meeting.Likes,
			&meeting.CreatedAt,
			&meeting.UpdatedAt,
		); err != nil {
			return nil, err
		}
		meetings = append(meetings, &meeting)
	}
	return meetings, rows.Err()
}

func (r *meetingRepository) IncrementLikes(ctx context.Context, id string, delta int) error {
	const query = `UPDATE meetings SET likes = GREATEST(likes + $1, 0), updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *meetingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM meetings WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
