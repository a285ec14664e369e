package domain

import "time"

// MeetingCategory distinguishes study groups from project teams.
type MeetingCategory string

const (
	MeetingCategoryStudy   MeetingCategory = "STUDY"
	MeetingCategoryProject MeetingCategory = "PROJECT"
)

// MeetingStatus tracks the recruitment lifecycle of a meeting post.
type MeetingStatus string

const (
	MeetingStatusRecruiting MeetingStatus = "RECRUITING"
	MeetingStatusConfirmed  MeetingStatus = "CONFIRMED"
	MeetingStatusClosed     MeetingStatus = "CLOSED"
)

// Meeting is a study/project recruitment post.
type Meeting struct {
	ID           string
	HostUsername string
	Category     MeetingCategory
	Title        string
	Content      string
	RecruitCount int
	TechStacks   []string
	Status       MeetingStatus
	Likes        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
