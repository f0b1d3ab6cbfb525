package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"steadypath/internal/model"
)

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	query := `
		INSERT INTO assignments (title, chapter, description, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		a.Title,
		a.Chapter,
		a.Description,
		a.DueDate,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*model.Assignment, error) {
	query := `
		SELECT id, title, chapter, description, due_date, created_by, created_at
		FROM assignments
		WHERE id = $1
	`
	var a model.Assignment
	err := r.db.GetContext(ctx, &a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &a, nil
}

// ListWithStatus joins every assignment with the user's completion row.
func (r *assignmentRepository) ListWithStatus(ctx context.Context, userID int64) ([]model.AssignmentWithStatus, error) {
	query := `
		SELECT a.id, a.title, a.chapter, a.description, a.due_date, a.created_by, a.created_at,
		       ac.completed_at
		FROM assignments a
		LEFT JOIN assignment_completions ac
		       ON ac.assignment_id = a.id AND ac.user_id = $1
		ORDER BY a.created_at DESC
	`
	var list []model.AssignmentWithStatus
	err := r.db.SelectContext(ctx, &list, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return list, nil
}

func (r *assignmentRepository) MarkComplete(ctx context.Context, assignmentID, userID int64, at time.Time) error {
	query := `
		INSERT INTO assignment_completions (assignment_id, user_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (assignment_id, user_id) DO UPDATE SET completed_at = EXCLUDED.completed_at
	`
	_, err := r.db.ExecContext(ctx, query, assignmentID, userID, at)
	if err != nil {
		return fmt.Errorf("mark assignment complete: %w", err)
	}
	return nil
}

func (r *assignmentRepository) UnmarkComplete(ctx context.Context, assignmentID, userID int64) error {
	query := `DELETE FROM assignment_completions WHERE assignment_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, assignmentID, userID)
	if err != nil {
		return fmt.Errorf("unmark assignment complete: %w", err)
	}
	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM assignments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrAssignmentNotFound
	}
	return nil
}
