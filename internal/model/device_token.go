package model

import "time"

// DeviceToken is a user's registered device for push notifications. A user
// may have several; having none just means push is a no-op for them.
type DeviceToken struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Token     string    `db:"token" json:"-"` // FCM registration token, never exposed
	Platform  string    `db:"platform" json:"platform"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterTokenRequest is the body for POST /devices/token.
type RegisterTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"` // "ios" or "android"
}

// Platform constants
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)
