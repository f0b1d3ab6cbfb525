package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"steadypath/internal/model"
)

type reminderPreferenceRepository struct {
	db *sqlx.DB
}

func NewReminderPreferenceRepository(db *sqlx.DB) ReminderPreferenceRepository {
	return &reminderPreferenceRepository{db: db}
}

// Get returns the user's preference row. Users who never opened the settings
// screen have no row; they behave as "off".
func (r *reminderPreferenceRepository) Get(ctx context.Context, userID int64) (*model.ReminderPreference, error) {
	query := `
		SELECT user_id, frequency, delivery_time, timezone, updated_at
		FROM reminder_preferences
		WHERE user_id = $1
	`
	var pref model.ReminderPreference
	err := r.db.GetContext(ctx, &pref, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &model.ReminderPreference{UserID: userID, Frequency: model.FrequencyOff}, nil
		}
		return nil, fmt.Errorf("get reminder preference: %w", err)
	}
	return &pref, nil
}

func (r *reminderPreferenceRepository) Upsert(ctx context.Context, pref *model.ReminderPreference) error {
	query := `
		INSERT INTO reminder_preferences (user_id, frequency, delivery_time, timezone, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			frequency = EXCLUDED.frequency,
			delivery_time = EXCLUDED.delivery_time,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, pref.UserID, pref.Frequency, pref.DeliveryTime, pref.Timezone)
	if err != nil {
		return fmt.Errorf("upsert reminder preference: %w", err)
	}
	return nil
}

// ListDaily is the dispatch job's bulk fetch: every daily-frequency row,
// across all users, in one round trip.
func (r *reminderPreferenceRepository) ListDaily(ctx context.Context) ([]model.ReminderPreference, error) {
	query := `
		SELECT user_id, frequency, delivery_time, timezone, updated_at
		FROM reminder_preferences
		WHERE frequency = $1
	`
	var prefs []model.ReminderPreference
	err := r.db.SelectContext(ctx, &prefs, query, model.FrequencyDaily)
	if err != nil {
		return nil, fmt.Errorf("list daily reminder preferences: %w", err)
	}
	return prefs, nil
}
