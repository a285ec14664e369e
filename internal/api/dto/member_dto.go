package dto

// MemberRegisterRequest payload for new members.
type MemberRegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest payload for completing a profile.
type ProfileUpdateRequest struct {
	Name string `json:"name"`
}

// MemberResponse is the public view of a member.
type MemberResponse struct {
	Username          string `json:"username"`
	Name              string `json:"name,omitempty"`
	Role              string `json:"role"`
	IsProfileComplete bool   `json:"isProfileComplete"`
}
