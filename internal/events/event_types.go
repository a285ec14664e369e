package events

import (
	"time"

	"github.com/spec-kit/membership-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberRegistered     EventType = "member_registered"
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationDecided   EventType = "application_decided"
	EventMeetingConfirmed     EventType = "meeting_confirmed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MemberRegisteredPayload payload.
type MemberRegisteredPayload struct {
	Username string `json:"username"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	MeetingID    string `json:"meeting_id"`
	HostUsername string `json:"host_username"`
	Applicant    string `json:"applicant"`
}

// ApplicationDecidedPayload payload.
type ApplicationDecidedPayload struct {
	MeetingID string                   `json:"meeting_id"`
	Applicant string                   `json:"applicant"`
	Status    domain.ApplicationStatus `json:"status"`
}

// MeetingConfirmedPayload payload.
type MeetingConfirmedPayload struct {
	MeetingID string `json:"meeting_id"`
	Title     string `json:"title"`
}
