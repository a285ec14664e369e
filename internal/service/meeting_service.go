package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/events"
	"github.com/spec-kit/membership-service/internal/repository"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// MeetingService coordinates meeting posts and their applications.
type MeetingService struct {
	meetings     repository.MeetingRepository
	applications repository.ApplicationRepository
	dispatcher   events.Dispatcher
}

// MeetingDependencies bundles repositories for the meeting service.
type MeetingDependencies struct {
	MeetingRepo     repository.MeetingRepository
	ApplicationRepo repository.ApplicationRepository
	Dispatcher      events.Dispatcher
}

// MeetingCreateInput describes meeting creation payload.
type MeetingCreateInput struct {
	Category     domain.MeetingCategory
	Title        string
	Content      string
	RecruitCount int
	TechStacks   []string
}

// NewMeetingService constructs the service.
func NewMeetingService(deps MeetingDependencies) *MeetingService {
	return &MeetingService{
		meetings:     deps.MeetingRepo,
		applications: deps.ApplicationRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// Create opens a new recruitment post.
func (s *MeetingService) Create(ctx context.Context, host string, input MeetingCreateInput) (*domain.Meeting, error) {
	if input.Category != domain.MeetingCategoryStudy && input.Category != domain.MeetingCategoryProject {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if input.RecruitCount <= 0 {
		return nil, apperrors.NewValidationError("recruit_count must be positive", nil)
	}

	meeting := &domain.Meeting{
		HostUsername: host,
		Category:     input.Category,
		Title:        input.Title,
		Content:      input.Content,
		RecruitCount: input.RecruitCount,
		TechStacks:   input.TechStacks,
		Status:       domain.MeetingStatusRecruiting,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, apperrors.MapError(err)
	}
	return meeting, nil
}

// Get loads a meeting by id.
func (s *MeetingService) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("meeting", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return meeting, nil
}

// List returns meetings matching the filter.
func (s *MeetingService) List(ctx context.Context, filter repository.MeetingFilter) ([]*domain.Meeting, error) {
	meetings, err := s.meetings.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return meetings, nil
}

// MeetingUpdateInput describes an edit to an open post.
type MeetingUpdateInput struct {
	Title        string
	Content      string
	RecruitCount int
	TechStacks   []string
}

// Update edits a recruiting post; only the host may edit.
func (s *MeetingService) Update(ctx context.Context, id, actor string, input MeetingUpdateInput) (*domain.Meeting, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.HostUsername != actor {
		return nil, apperrors.NewForbidden("only the host can edit a meeting")
	}
	if meeting.Status != domain.MeetingStatusRecruiting {
		return nil, apperrors.NewConflict("meeting is not recruiting", nil)
	}
	if input.RecruitCount <= 0 {
		return nil, apperrors.NewValidationError("recruit_count must be positive", nil)
	}

	meeting.Title = input.Title
	meeting.Content = input.Content
	meeting.RecruitCount = input.RecruitCount
	meeting.TechStacks = input.TechStacks
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, apperrors.MapError(err)
	}
	return meeting, nil
}

// Confirm closes recruitment; only the host may confirm.
func (s *MeetingService) Confirm(ctx context.Context, id, actor string) (*domain.Meeting, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.HostUsername != actor {
		return nil, apperrors.NewForbidden("only the host can confirm a meeting")
	}
	if meeting.Status != domain.MeetingStatusRecruiting {
		return nil, apperrors.NewConflict("meeting is not recruiting", nil)
	}

	meeting.Status = domain.MeetingStatusConfirmed
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventMeetingConfirmed,
		Subject:   actor,
		Timestamp: time.Now(),
		Payload:   events.MeetingConfirmedPayload{MeetingID: meeting.ID, Title: meeting.Title},
	})
	return meeting, nil
}

// Like bumps the meeting's like counter.
func (s *MeetingService) Like(ctx context.Context, id string) error {
	if err := s.meetings.IncrementLikes(ctx, id, 1); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("meeting", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Remove deletes a meeting post. Authorization (admin moderation) is
// enforced at the route.
func (s *MeetingService) Remove(ctx context.Context, id string) error {
	if err := s.meetings.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("meeting", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Apply submits an application to join a meeting.
func (s *MeetingService) Apply(ctx context.Context, meetingID, applicant, message string) (*domain.Application, error) {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != domain.MeetingStatusRecruiting {
		return nil, apperrors.NewConflict("meeting is not recruiting", nil)
	}
	if meeting.HostUsername == applicant {
		return nil, apperrors.NewConflict("host cannot apply to own meeting", nil)
	}
	if _, err := s.applications.GetByMeetingAndApplicant(ctx, meetingID, applicant); err == nil {
		return nil, apperrors.NewConflict("already applied", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	application := &domain.Application{
		MeetingID: meetingID,
		Applicant: applicant,
		Message:   message,
		Status:    domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventApplicationSubmitted,
		Subject:   applicant,
		Timestamp: time.Now(),
		Payload: events.ApplicationSubmittedPayload{
			MeetingID:    meetingID,
			HostUsername: meeting.HostUsername,
			Applicant:    applicant,
		},
	})
	return application, nil
}

// Decide approves or rejects a pending application; only the host decides.
func (s *MeetingService) Decide(ctx context.Context, applicationID, actor string, approve bool) (*domain.Application, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, apperrors.MapError(err)
	}

	meeting, err := s.Get(ctx, application.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.HostUsername != actor {
		return nil, apperrors.NewForbidden("only the host can decide applications")
	}
	if application.Status != domain.ApplicationStatusPending {
		return nil, apperrors.NewConflict("application already decided", nil)
	}

	status := domain.ApplicationStatusRejected
	if approve {
		status = domain.ApplicationStatusApproved
	}
	if err := s.applications.UpdateStatus(ctx, application.ID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	application.Status = status

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventApplicationDecided,
		Subject:   actor,
		Timestamp: time.Now(),
		Payload: events.ApplicationDecidedPayload{
			MeetingID: application.MeetingID,
			Applicant: application.Applicant,
			Status:    status,
		},
	})
	return application, nil
}

// Applications lists a meeting's applications for its host.
func (s *MeetingService) Applications(ctx context.Context, meetingID, actor string) ([]*domain.Application, error) {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.HostUsername != actor {
		return nil, apperrors.NewForbidden("only the host can list applications")
	}

	applications, err := s.applications.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return applications, nil
}
