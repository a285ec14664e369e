package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the data section of a successful login.
type LoginResponse struct {
	Username          string `json:"username"`
	IsProfileComplete bool   `json:"isProfileComplete"`
}
