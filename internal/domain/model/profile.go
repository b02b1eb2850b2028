package model

// Role distinguishes partner staff from platform administrators.
type Role string

const (
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

// Profile is the application-level record of an authenticated user.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	PartnerSlug string
	Role        Role
}
