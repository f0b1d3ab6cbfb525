package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"steadypath/internal/model"
)

type officerContactRepository struct {
	db *sqlx.DB
}

func NewOfficerContactRepository(db *sqlx.DB) OfficerContactRepository {
	return &officerContactRepository{db: db}
}

func (r *officerContactRepository) Create(ctx context.Context, c *model.OfficerContact) error {
	query := `
		INSERT INTO officer_contacts (user_id, contact_date, officer_name, method, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.UserID,
		c.ContactDate,
		c.OfficerName,
		c.Method,
		c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create officer contact: %w", err)
	}
	return nil
}

func (r *officerContactRepository) GetByID(ctx context.Context, id int64) (*model.OfficerContact, error) {
	query := `
		SELECT id, user_id, contact_date, officer_name, method, notes, created_at, updated_at
		FROM officer_contacts
		WHERE id = $1
	`
	var c model.OfficerContact
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrOfficerContactNotFound
		}
		return nil, fmt.Errorf("get officer contact: %w", err)
	}
	return &c, nil
}

func (r *officerContactRepository) List(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.OfficerContact, *time.Time, error) {
	query := `
		SELECT id, user_id, contact_date, officer_name, method, notes, created_at, updated_at
		FROM officer_contacts
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	var contacts []model.OfficerContact
	err := r.db.SelectContext(ctx, &contacts, query, userID, cursor, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("list officer contacts: %w", err)
	}

	var next *time.Time
	if len(contacts) > limit {
		contacts = contacts[:limit]
		t := contacts[len(contacts)-1].CreatedAt
		next = &t
	}
	return contacts, next, nil
}

func (r *officerContactRepository) Update(ctx context.Context, c *model.OfficerContact) error {
	query := `
		UPDATE officer_contacts
		SET officer_name = $3, method = $4, notes = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.UserID,
		c.OfficerName,
		c.Method,
		c.Notes,
	).Scan(&c.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrOfficerContactNotFound
		}
		return fmt.Errorf("update officer contact: %w", err)
	}
	return nil
}

func (r *officerContactRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM officer_contacts WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete officer contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrOfficerContactNotFound
	}
	return nil
}
