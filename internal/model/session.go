package model

import (
	"errors"
	"time"
)

// SessionRecord is one row of a client's group-session ledger: the session
// attended, the fee paid at the door, and the takeaway written afterwards.
type SessionRecord struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	SessionDate time.Time `db:"session_date" json:"session_date"`
	Topic       string    `db:"topic" json:"topic"`
	FeeCents    int       `db:"fee_cents" json:"fee_cents"`
	FeePaid     bool      `db:"fee_paid" json:"fee_paid"`
	Takeaway    *string   `db:"takeaway" json:"takeaway,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateSessionRecordRequest is the body for POST /sessions.
type CreateSessionRecordRequest struct {
	SessionDate string  `json:"session_date"` // YYYY-MM-DD
	Topic       string  `json:"topic"`
	FeeCents    int     `json:"fee_cents"`
	FeePaid     bool    `json:"fee_paid"`
	Takeaway    *string `json:"takeaway"`
}

// UpdateSessionRecordRequest is the body for PATCH /sessions/{id}.
type UpdateSessionRecordRequest struct {
	Topic    *string `json:"topic"`
	FeeCents *int    `json:"fee_cents"`
	FeePaid  *bool   `json:"fee_paid"`
	Takeaway *string `json:"takeaway"`
}

// SessionListResponse is the cursor-paginated ledger.
type SessionListResponse struct {
	Records    []SessionRecord `json:"records"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

var ErrSessionRecordNotFound = errors.New("session record not found")
