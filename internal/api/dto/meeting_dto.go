package dto

import (
	"time"

	"github.com/spec-kit/membership-service/internal/domain"
)

// MeetingCreateRequest payload for opening a recruitment post.
type MeetingCreateRequest struct {
	Category     string   `json:"category"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	RecruitCount int      `json:"recruitCount"`
	TechStacks   []string `json:"techStacks"`
}

// MeetingUpdateRequest payload for editing a post.
type MeetingUpdateRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	RecruitCount int      `json:"recruitCount"`
	TechStacks   []string `json:"techStacks"`
}

// ApplyRequest payload for joining a meeting.
type ApplyRequest struct {
	Message string `json:"message"`
}

// DecideRequest payload for approving/rejecting an application.
type DecideRequest struct {
	Approve bool `json:"approve"`
}

// MeetingResponse is the public view of a meeting post.
type MeetingResponse struct {
	ID           string    `json:"id"`
	HostUsername string    `json:"hostUsername"`
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	RecruitCount int       `json:"recruitCount"`
	TechStacks   []string  `json:"techStacks"`
	Status       string    `json:"status"`
	Likes        int       `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ApplicationResponse is the public view of an application.
type ApplicationResponse struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meetingId"`
	Applicant string    `json:"applicant"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromMeeting maps a domain meeting to its response view.
func FromMeeting(meeting *domain.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:           meeting.ID,
		HostUsername: meeting.HostUsername,
		Category:     string(meeting.Category),
		Title:        meeting.Title,
		Content:      meeting.Content,
		RecruitCount: meeting.RecruitCount,
		TechStacks:   meeting.TechStacks,
		Status:       string(meeting.Status),
		Likes:        meeting.Likes,
		CreatedAt:    meeting.CreatedAt,
	}
}

// FromApplication maps a domain application to its response view.
func FromApplication(application *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        application.ID,
		MeetingID: application.MeetingID,
		Applicant: application.Applicant,
		Message:   application.Message,
		Status:    string(application.Status),
		CreatedAt: application.CreatedAt,
	}
}
