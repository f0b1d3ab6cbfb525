package service

import (
	"context"
	"fmt"

	"steadypath/internal/model"
	"steadypath/internal/repository"
)

const notificationDefaultLimit = 50

// NotificationService handles the in-app notification list and device token
// registration.
type NotificationService struct {
	repo      repository.NotificationRepository
	tokenRepo repository.DeviceTokenRepository
}

func NewNotificationService(repo repository.NotificationRepository, tokenRepo repository.DeviceTokenRepository) *NotificationService {
	return &NotificationService{repo: repo, tokenRepo: tokenRepo}
}

// List returns the user's recent notifications with the unread badge count.
func (s *NotificationService) List(ctx context.Context, userID int64, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 {
		limit = notificationDefaultLimit
	}

	notifications, unread, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks the given notifications read; an empty ID list marks all.
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return s.repo.MarkAllAsRead(ctx, userID)
	}
	return s.repo.MarkAsRead(ctx, userID, notificationIDs)
}

// UnreadCount returns the badge count alone.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// RegisterDeviceToken stores an FCM token for the user. Re-registering an
// existing token moves it to the current user, which handles shared devices.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error {
	if req.Token == "" {
		return invalidf("token is required")
	}
	if req.Platform != model.PlatformIOS && req.Platform != model.PlatformAndroid {
		return invalidf("platform must be %q or %q", model.PlatformIOS, model.PlatformAndroid)
	}
	return s.tokenRepo.Upsert(ctx, userID, req.Token, req.Platform)
}

// RemoveDeviceToken deletes a token (logout, push disabled).
func (s *NotificationService) RemoveDeviceToken(ctx context.Context, token string) error {
	if token == "" {
		return invalidf("token is required")
	}
	return s.tokenRepo.Delete(ctx, token)
}
