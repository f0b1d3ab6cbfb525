package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"steadypath/internal/model"
)

type polygraphRepository struct {
	db *sqlx.DB
}

func NewPolygraphRepository(db *sqlx.DB) PolygraphRepository {
	return &polygraphRepository{db: db}
}

func (r *polygraphRepository) Create(ctx context.Context, exam *model.PolygraphExam) error {
	query := `
		INSERT INTO polygraph_exams (user_id, exam_date, examiner, result, notes, report_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		exam.UserID,
		exam.ExamDate,
		exam.Examiner,
		exam.Result,
		exam.Notes,
		exam.ReportKey,
	).Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create polygraph exam: %w", err)
	}
	return nil
}

func (r *polygraphRepository) GetByID(ctx context.Context, id int64) (*model.PolygraphExam, error) {
	query := `
		SELECT id, user_id, exam_date, examiner, result, notes, report_key, created_at, updated_at
		FROM polygraph_exams
		WHERE id = $1
	`
	var exam model.PolygraphExam
	err := r.db.GetContext(ctx, &exam, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPolygraphExamNotFound
		}
		return nil, fmt.Errorf("get polygraph exam: %w", err)
	}
	return &exam, nil
}

// List returns all exams for a user, newest first. Clients rarely accumulate
// more than a handful, so no pagination.
func (r *polygraphRepository) List(ctx context.Context, userID int64) ([]model.PolygraphExam, error) {
	query := `
		SELECT id, user_id, exam_date, examiner, result, notes, report_key, created_at, updated_at
		FROM polygraph_exams
		WHERE user_id = $1
		ORDER BY exam_date DESC
	`
	var exams []model.PolygraphExam
	err := r.db.SelectContext(ctx, &exams, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list polygraph exams: %w", err)
	}
	return exams, nil
}

func (r *polygraphRepository) Update(ctx context.Context, exam *model.PolygraphExam) error {
	query := `
		UPDATE polygraph_exams
		SET examiner = $3, result = $4, notes = $5, report_key = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		exam.ID,
		exam.UserID,
		exam.Examiner,
		exam.Result,
		exam.Notes,
		exam.ReportKey,
	).Scan(&exam.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrPolygraphExamNotFound
		}
		return fmt.Errorf("update polygraph exam: %w", err)
	}
	return nil
}

func (r *polygraphRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM polygraph_exams WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete polygraph exam: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrPolygraphExamNotFound
	}
	return nil
}
