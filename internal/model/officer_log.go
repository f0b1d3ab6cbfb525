package model

import (
	"errors"
	"time"
)

// Contact methods for probation-officer interactions.
const (
	ContactOffice = "office"
	ContactPhone  = "phone"
	ContactField  = "field"
	ContactCourt  = "court"
)

// OfficerContact logs one interaction between a client and their supervising
// officer.
type OfficerContact struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	ContactDate time.Time `db:"contact_date" json:"contact_date"`
	OfficerName string    `db:"officer_name" json:"officer_name"`
	Method      string    `db:"method" json:"method"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateOfficerContactRequest is the body for POST /officer-contacts.
type CreateOfficerContactRequest struct {
	ContactDate string  `json:"contact_date"` // YYYY-MM-DD
	OfficerName string  `json:"officer_name"`
	Method      string  `json:"method"`
	Notes       *string `json:"notes"`
}

// UpdateOfficerContactRequest is the body for PATCH /officer-contacts/{id}.
type UpdateOfficerContactRequest struct {
	OfficerName *string `json:"officer_name"`
	Method      *string `json:"method"`
	Notes       *string `json:"notes"`
}

var (
	ErrOfficerContactNotFound = errors.New("officer contact not found")
	ErrInvalidContactMethod   = errors.New("invalid contact method")
)

// ValidContactMethod reports whether m is a known contact method.
func ValidContactMethod(m string) bool {
	switch m {
	case ContactOffice, ContactPhone, ContactField, ContactCourt:
		return true
	}
	return false
}
