package domain

import "time"

// TokenCategory discriminates access tokens from refresh tokens so one
// can never be used where the other is required.
type TokenCategory string

const (
	TokenCategoryAccess  TokenCategory = "ACCESS"
	TokenCategoryRefresh TokenCategory = "REFRESH"
)

// Token describes issued authentication token metadata.
type Token struct {
	Category  TokenCategory
	Subject   string
	Role      MemberRole
	IssuedAt  time.Time
	ExpiresAt time.Time
}
