package domain

import "time"

// MemberRole is the single authorization role carried in tokens.
type MemberRole string

const (
	RoleUser  MemberRole = "ROLE_USER"
	RoleAdmin MemberRole = "ROLE_ADMIN"
)

// MemberStatus represents lifecycle states for a member account.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
)

// Member is the domain model for platform members.
type Member struct {
	ID              string
	Username        string
	Name            string
	PasswordHash    string
	Role            MemberRole
	ProfileComplete bool
	Status          MemberStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
