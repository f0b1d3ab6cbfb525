package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"steadypath/internal/model"
	"steadypath/internal/repository"
)

// ReminderSettingsService handles the journal-reminder preference form.
//
// Validation here is stricter than the dispatch job, which tolerates whatever
// is already in the table: rejecting bad input at the form keeps the table
// clean, while the job's leniency covers rows written before a rule existed.
type ReminderSettingsService struct {
	repo repository.ReminderPreferenceRepository
}

func NewReminderSettingsService(repo repository.ReminderPreferenceRepository) *ReminderSettingsService {
	return &ReminderSettingsService{repo: repo}
}

// Get returns the user's reminder preference, defaulting to "off".
func (s *ReminderSettingsService) Get(ctx context.Context, userID int64) (*model.ReminderPreference, error) {
	return s.repo.Get(ctx, userID)
}

// Update validates and saves the preference.
func (s *ReminderSettingsService) Update(ctx context.Context, userID int64, req *model.UpdateReminderRequest) (*model.ReminderPreference, error) {
	if !model.ValidFrequency(req.Frequency) {
		return nil, invalidf("frequency must be one of daily, weekly, off")
	}

	if req.DeliveryTime != nil && *req.DeliveryTime != "" {
		if !validDeliveryTime(*req.DeliveryTime) {
			return nil, invalidf("delivery_time must be HH:MM (24-hour)")
		}
	}
	if req.Timezone != nil && *req.Timezone != "" {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, invalidf("unknown timezone %q", *req.Timezone)
		}
	}

	pref := &model.ReminderPreference{
		UserID:       userID,
		Frequency:    req.Frequency,
		DeliveryTime: req.DeliveryTime,
		Timezone:     req.Timezone,
	}

	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("save reminder preference: %w", err)
	}
	return pref, nil
}

func validDeliveryTime(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}
