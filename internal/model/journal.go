package model

import (
	"errors"
	"time"
)

// JournalEntry is one dated journal document written by a client.
type JournalEntry struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"-"`
	EntryDate      time.Time `db:"entry_date" json:"entry_date"`
	Mood           int       `db:"mood" json:"mood"` // 1..10 self-rating
	Content        string    `db:"content" json:"content"`
	Triggers       *string   `db:"triggers" json:"triggers,omitempty"`
	SupportContact *string   `db:"support_contact" json:"support_contact,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// JournalAutofill carries the recurring fields of the most recent entry,
// used to pre-populate the next entry form.
type JournalAutofill struct {
	Mood           int     `json:"mood"`
	Triggers       *string `json:"triggers,omitempty"`
	SupportContact *string `json:"support_contact,omitempty"`
}

// CreateJournalEntryRequest is the body for POST /journal.
type CreateJournalEntryRequest struct {
	EntryDate      string  `json:"entry_date"` // YYYY-MM-DD, defaults to today
	Mood           int     `json:"mood"`
	Content        string  `json:"content"`
	Triggers       *string `json:"triggers"`
	SupportContact *string `json:"support_contact"`
}

// UpdateJournalEntryRequest is the body for PATCH /journal/{id}.
type UpdateJournalEntryRequest struct {
	Mood           *int    `json:"mood"`
	Content        *string `json:"content"`
	Triggers       *string `json:"triggers"`
	SupportContact *string `json:"support_contact"`
}

// JournalListResponse is the cursor-paginated journal list.
type JournalListResponse struct {
	Entries    []JournalEntry `json:"entries"`
	NextCursor *string        `json:"next_cursor,omitempty"`
	Streak     int            `json:"streak"` // consecutive days ending today or yesterday
}

var (
	ErrJournalEntryNotFound = errors.New("journal entry not found")
	ErrDuplicateEntryDate   = errors.New("an entry for that date already exists")
)
