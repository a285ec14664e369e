package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/membership-service/internal/domain"
)

// ApplicationRepository defines persistence access for meeting applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByMeetingAndApplicant(ctx context.Context, meetingID, applicant string) (*domain.Application, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Application, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository returns a Postgres-backed implementation.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	const query = `
        INSERT INTO applications (meeting_id, applicant, message, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		application.MeetingID,
		application.Applicant,
		application.Message,
		application.Status,
	).Scan(&application.ID, &application.CreatedAt, &application.UpdatedAt)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	const query = `UPDATE applications SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	const query = `
        SELECT id, meeting_id, applicant, message, status, created_at, updated_at
        FROM applications WHERE id=$1`

	return r.scanOne(ctx, query, id)
}

func (r *applicationRepository) GetByMeetingAndApplicant(ctx context.Context, meetingID, applicant string) (*domain.Application, error) {
	const query = `
        SELECT id, meeting_id, applicant, message, status, created_at, updated_at
        FROM applications WHERE meeting_id=$1 AND applicant=$2`

	return r.scanOne(ctx, query, meetingID, applicant)
}

func (r *applicationRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Application, error) {
	const query = `
        SELECT id, meeting_id, applicant, message, status, created_at, updated_at
        FROM applications WHERE meeting_id=$1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []*domain.Application
	for rows.Next() {
		var application domain.Application
		if err := rows.Scan(
			&application.ID,
			&application.MeetingID,
			&application.Applicant,
			&application.Message,
			&application.Status,
			&application.CreatedAt,
			&application.UpdatedAt,
		); err != nil {
			return nil, err
		}
		applications = append(applications, &application)
	}
	return applications, rows.Err()
}

func (r *applicationRepository) scanOne(ctx context.Context, query string, args ...any) (*domain.Application, error) {
	var application domain.Application
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&application.ID,
		&application.MeetingID,
		&application.Applicant,
		&application.Message,
		&application.Status,
		&application.CreatedAt,
		&application.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &application, nil
}
