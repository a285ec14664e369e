package domain

import "time"

// ApplicationStatus tracks an applicant's standing on a meeting.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// Application is a member's request to join a meeting.
type Application struct {
	ID        string
	MeetingID string
	Applicant string
	Message   string
	Status    ApplicationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
