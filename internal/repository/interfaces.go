package repository

import (
	"context"
	"time"

	"steadypath/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// ListClientIDs returns the IDs of all client-role users, used when
	// fanning out assignment notifications.
	ListClientIDs(ctx context.Context) ([]int64, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type JournalRepository interface {
	Create(ctx context.Context, entry *model.JournalEntry) error
	GetByID(ctx context.Context, id int64) (*model.JournalEntry, error)
	// List returns the user's entries newest-first. A nil cursor starts from
	// the top; otherwise only entries created before the cursor are returned.
	List(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.JournalEntry, *time.Time, error)
	// GetLatest returns the user's most recent entry, model.ErrJournalEntryNotFound if none.
	GetLatest(ctx context.Context, userID int64) (*model.JournalEntry, error)
	// EntryDates returns the distinct entry dates for a user, newest first.
	EntryDates(ctx context.Context, userID int64) ([]time.Time, error)
	Update(ctx context.Context, entry *model.JournalEntry) error
	Delete(ctx context.Context, id, userID int64) error
}

type SessionRepository interface {
	Create(ctx context.Context, rec *model.SessionRecord) error
	GetByID(ctx context.Context, id int64) (*model.SessionRecord, error)
	List(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SessionRecord, *time.Time, error)
	// GetLatest returns the user's most recent record, for form autofill.
	GetLatest(ctx context.Context, userID int64) (*model.SessionRecord, error)
	Update(ctx context.Context, rec *model.SessionRecord) error
	Delete(ctx context.Context, id, userID int64) error
}

type PolygraphRepository interface {
	Create(ctx context.Context, exam *model.PolygraphExam) error
	GetByID(ctx context.Context, id int64) (*model.PolygraphExam, error)
	List(ctx context.Context, userID int64) ([]model.PolygraphExam, error)
	Update(ctx context.Context, exam *model.PolygraphExam) error
	Delete(ctx context.Context, id, userID int64) error
}

type OfficerContactRepository interface {
	Create(ctx context.Context, c *model.OfficerContact) error
	GetByID(ctx context.Context, id int64) (*model.OfficerContact, error)
	List(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.OfficerContact, *time.Time, error)
	Update(ctx context.Context, c *model.OfficerContact) error
	Delete(ctx context.Context, id, userID int64) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id int64) (*model.Assignment, error)
	// ListWithStatus returns all assignments joined with the given user's
	// completion timestamps, newest first.
	ListWithStatus(ctx context.Context, userID int64) ([]model.AssignmentWithStatus, error)
	MarkComplete(ctx context.Context, assignmentID, userID int64, at time.Time) error
	UnmarkComplete(ctx context.Context, assignmentID, userID int64) error
	Delete(ctx context.Context, id int64) error
}

type ReminderPreferenceRepository interface {
	// Get returns the user's preference row, a default "off" row if none exists.
	Get(ctx context.Context, userID int64) (*model.ReminderPreference, error)
	Upsert(ctx context.Context, pref *model.ReminderPreference) error
	// ListDaily returns every preference row with frequency = 'daily' in one
	// query. The dispatch job depends on this being a single bulk fetch.
	ListDaily(ctx context.Context) ([]model.ReminderPreference, error)
}

type DeviceTokenRepository interface {
	// Upsert creates or updates a device token; an existing token is
	// reassigned to the current user.
	Upsert(ctx context.Context, userID int64, token, platform string) error
	GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error)
	Delete(ctx context.Context, token string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// CreateBatch inserts one notification per user ID with shared content.
	CreateBatch(ctx context.Context, userIDs []int64, notifType string, assignmentID *int64, title, body string) error
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, int, error)
	MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	GetUnreadCount(ctx context.Context, userID int64) (int, error)
}
