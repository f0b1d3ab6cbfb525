package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"steadypath/internal/model"
)

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, rec *model.SessionRecord) error {
	query := `
		INSERT INTO session_records (user_id, session_date, topic, fee_cents, fee_paid, takeaway)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		rec.UserID,
		rec.SessionDate,
		rec.Topic,
		rec.FeeCents,
		rec.FeePaid,
		rec.Takeaway,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session record: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id int64) (*model.SessionRecord, error) {
	query := `
		SELECT id, user_id, session_date, topic, fee_cents, fee_paid, takeaway, created_at, updated_at
		FROM session_records
		WHERE id = $1
	`
	var rec model.SessionRecord
	err := r.db.GetContext(ctx, &rec, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSessionRecordNotFound
		}
		return nil, fmt.Errorf("get session record: %w", err)
	}
	return &rec, nil
}

func (r *sessionRepository) List(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SessionRecord, *time.Time, error) {
	query := `
		SELECT id, user_id, session_date, topic, fee_cents, fee_paid, takeaway, created_at, updated_at
		FROM session_records
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	var recs []model.SessionRecord
	err := r.db.SelectContext(ctx, &recs, query, userID, cursor, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("list session records: %w", err)
	}

	var next *time.Time
	if len(recs) > limit {
		recs = recs[:limit]
		t := recs[len(recs)-1].CreatedAt
		next = &t
	}
	return recs, next, nil
}

func (r *sessionRepository) GetLatest(ctx context.Context, userID int64) (*model.SessionRecord, error) {
	query := `
		SELECT id, user_id, session_date, topic, fee_cents, fee_paid, takeaway, created_at, updated_at
		FROM session_records
		WHERE user_id = $1
		ORDER BY session_date DESC, created_at DESC
		LIMIT 1
	`
	var rec model.SessionRecord
	err := r.db.GetContext(ctx, &rec, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSessionRecordNotFound
		}
		return nil, fmt.Errorf("get latest session record: %w", err)
	}
	return &rec, nil
}

func (r *sessionRepository) Update(ctx context.Context, rec *model.SessionRecord) error {
	query := `
		UPDATE session_records
		SET topic = $3, fee_cents = $4, fee_paid = $5, takeaway = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Topic,
		rec.FeeCents,
		rec.FeePaid,
		rec.Takeaway,
	).Scan(&rec.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrSessionRecordNotFound
		}
		return fmt.Errorf("update session record: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM session_records WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrSessionRecordNotFound
	}
	return nil
}
