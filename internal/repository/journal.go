package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"steadypath/internal/model"
)

type journalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, entry *model.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (user_id, entry_date, mood, content, triggers, support_contact)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		entry.UserID,
		entry.EntryDate,
		entry.Mood,
		entry.Content,
		entry.Triggers,
		entry.SupportContact,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		// unique (user_id, entry_date)
		if strings.Contains(err.Error(), "journal_entries_user_id_entry_date") {
			return model.ErrDuplicateEntryDate
		}
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

func (r *journalRepository) GetByID(ctx context.Context, id int64) (*model.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, mood, content, triggers, support_contact, created_at, updated_at
		FROM journal_entries
		WHERE id = $1
	`
	var entry model.JournalEntry
	err := r.db.GetContext(ctx, &entry, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrJournalEntryNotFound
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	return &entry, nil
}

// List returns entries newest-first using created_at keyset pagination.
func (r *journalRepository) List(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.JournalEntry, *time.Time, error) {
	query := `
		SELECT id, user_id, entry_date, mood, content, triggers, support_contact, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	var entries []model.JournalEntry
	// Fetch one extra row to know whether another page exists.
	err := r.db.SelectContext(ctx, &entries, query, userID, cursor, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("list journal entries: %w", err)
	}

	var next *time.Time
	if len(entries) > limit {
		entries = entries[:limit]
		t := entries[len(entries)-1].CreatedAt
		next = &t
	}
	return entries, next, nil
}

func (r *journalRepository) GetLatest(ctx context.Context, userID int64) (*model.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, mood, content, triggers, support_contact, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
		LIMIT 1
	`
	var entry model.JournalEntry
	err := r.db.GetContext(ctx, &entry, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrJournalEntryNotFound
		}
		return nil, fmt.Errorf("get latest journal entry: %w", err)
	}
	return &entry, nil
}

func (r *journalRepository) EntryDates(ctx context.Context, userID int64) ([]time.Time, error) {
	query := `
		SELECT DISTINCT entry_date
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC
	`
	var dates []time.Time
	err := r.db.SelectContext(ctx, &dates, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list entry dates: %w", err)
	}
	return dates, nil
}

func (r *journalRepository) Update(ctx context.Context, entry *model.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET mood = $3, content = $4, triggers = $5, support_contact = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Mood,
		entry.Content,
		entry.Triggers,
		entry.SupportContact,
	).Scan(&entry.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrJournalEntryNotFound
		}
		return fmt.Errorf("update journal entry: %w", err)
	}
	return nil
}

func (r *journalRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrJournalEntryNotFound
	}
	return nil
}
