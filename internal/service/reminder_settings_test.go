package service

import (
	"context"
	"errors"
	"testing"

	"steadypath/internal/model"
)

type mockReminderPreferenceRepository struct {
	getFn    func(ctx context.Context, userID int64) (*model.ReminderPreference, error)
	upserted []*model.ReminderPreference
}

func (m *mockReminderPreferenceRepository) Get(ctx context.Context, userID int64) (*model.ReminderPreference, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return &model.ReminderPreference{UserID: userID, Frequency: model.FrequencyOff}, nil
}

func (m *mockReminderPreferenceRepository) Upsert(ctx context.Context, pref *model.ReminderPreference) error {
	m.upserted = append(m.upserted, pref)
	return nil
}

func (m *mockReminderPreferenceRepository) ListDaily(ctx context.Context) ([]model.ReminderPreference, error) {
	return nil, nil
}

func TestReminderSettings_Update(t *testing.T) {
	repo := &mockReminderPreferenceRepository{}
	svc := NewReminderSettingsService(repo)

	deliveryTime := "20:30"
	tz := "America/Denver"
	pref, err := svc.Update(context.Background(), 1, &model.UpdateReminderRequest{
		Frequency:    model.FrequencyDaily,
		DeliveryTime: &deliveryTime,
		Timezone:     &tz,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if pref.Frequency != model.FrequencyDaily {
		t.Errorf("frequency = %q, want daily", pref.Frequency)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected one upsert, got %d", len(repo.upserted))
	}
}

func TestReminderSettings_Update_Validation(t *testing.T) {
	svc := NewReminderSettingsService(&mockReminderPreferenceRepository{})

	badTime := "25:99"
	badTZ := "Mars/Olympus_Mons"
	goodTime := "08:00"

	cases := []model.UpdateReminderRequest{
		{Frequency: "hourly"},
		{Frequency: model.FrequencyDaily, DeliveryTime: &badTime},
		{Frequency: model.FrequencyDaily, DeliveryTime: &goodTime, Timezone: &badTZ},
	}
	for _, req := range cases {
		if _, err := svc.Update(context.Background(), 1, &req); !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("request %+v: expected validation error, got %v", req, err)
		}
	}
}

func TestReminderSettings_Update_PartialFormIsAllowed(t *testing.T) {
	// The settings form saves frequency before a delivery time is picked; the
	// dispatch job simply skips such rows.
	repo := &mockReminderPreferenceRepository{}
	svc := NewReminderSettingsService(repo)

	if _, err := svc.Update(context.Background(), 1, &model.UpdateReminderRequest{
		Frequency: model.FrequencyDaily,
	}); err != nil {
		t.Fatalf("frequency-only update should succeed, got: %v", err)
	}
}
