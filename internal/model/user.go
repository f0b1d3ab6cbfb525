package model

import (
	"errors"
	"time"
)

// Roles determine which surfaces a user can reach. Clients work through the
// program; facilitators run groups and publish assignments; officers review
// compliance records.
const (
	RoleClient      = "client"
	RoleFacilitator = "facilitator"
	RoleOfficer     = "officer"
)

// User represents an account in the program.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	DisplayName    *string   `db:"display_name" json:"display_name"`
	Role           string    `db:"role" json:"role"`
	PhotoURL       *string   `db:"photo_url" json:"photo_url"`
	PhotoKey       *string   `db:"photo_key" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the compact shape embedded in other responses.
type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	DisplayName *string `db:"display_name" json:"display_name"`
	PhotoURL    *string `db:"photo_url" json:"photo_url"`
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	PhotoURL    *string `json:"-"`
	PhotoKey    *string `json:"-"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var (
	// ErrInvalidInput marks user-correctable request errors; handlers map it to 400
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole is returned when a register request names an unknown role
	ErrInvalidRole = errors.New("invalid role")
)

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r string) bool {
	return r == RoleClient || r == RoleFacilitator || r == RoleOfficer
}
