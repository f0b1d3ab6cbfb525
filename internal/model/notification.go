package model

import "time"

// Notification types
const (
	NotificationTypeAssignment = "assignment"
	NotificationTypeSystem     = "system"
)

// Notification is one in-app notification row. Title and Body are rendered at
// creation time so the list view never needs to re-join source records.
type Notification struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"-"`
	Type         string    `db:"type" json:"type"`
	AssignmentID *int64    `db:"assignment_id" json:"assignment_id,omitempty"`
	Title        string    `db:"title" json:"title"`
	Body         string    `db:"body" json:"body"`
	IsRead       bool      `db:"is_read" json:"is_read"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NotificationListResponse is the notification list plus the badge count.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// MarkReadRequest is the body for PATCH /notifications/read.
type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids"`
}
