package model

import "time"

// Reminder frequencies. The dispatch job only acts on "daily".
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyOff    = "off"
)

// ReminderPreference is a user's journal-reminder configuration, one row per
// user. DeliveryTime is a wall-clock "HH:MM" interpreted in Timezone; both are
// nullable because the settings form saves them independently.
type ReminderPreference struct {
	UserID       int64     `db:"user_id" json:"-"`
	Frequency    string    `db:"frequency" json:"frequency"`
	DeliveryTime *string   `db:"delivery_time" json:"delivery_time,omitempty"`
	Timezone     *string   `db:"timezone" json:"timezone,omitempty"` // IANA name, UTC when absent
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateReminderRequest is the body for PUT /settings/reminders.
type UpdateReminderRequest struct {
	Frequency    string  `json:"frequency"`
	DeliveryTime *string `json:"delivery_time"`
	Timezone     *string `json:"timezone"`
}

// ValidFrequency reports whether f is a known reminder frequency.
func ValidFrequency(f string) bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyOff
}
