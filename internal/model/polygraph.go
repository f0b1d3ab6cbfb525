package model

import (
	"errors"
	"time"
)

// Polygraph exam outcomes.
const (
	PolygraphPass         = "pass"
	PolygraphFail         = "fail"
	PolygraphInconclusive = "inconclusive"
)

// PolygraphExam records one maintenance or disclosure exam. ReportKey points
// at the uploaded scan in object storage, if one was attached.
type PolygraphExam struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	ExamDate  time.Time `db:"exam_date" json:"exam_date"`
	Examiner  string    `db:"examiner" json:"examiner"`
	Result    string    `db:"result" json:"result"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	ReportKey *string   `db:"report_key" json:"-"`
	ReportURL *string   `db:"-" json:"report_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreatePolygraphExamRequest is the body for POST /polygraphs.
type CreatePolygraphExamRequest struct {
	ExamDate  string  `json:"exam_date"` // YYYY-MM-DD
	Examiner  string  `json:"examiner"`
	Result    string  `json:"result"`
	Notes     *string `json:"notes"`
	ReportKey *string `json:"report_key"` // from the presign flow
}

// UpdatePolygraphExamRequest is the body for PATCH /polygraphs/{id}.
type UpdatePolygraphExamRequest struct {
	Examiner  *string `json:"examiner"`
	Result    *string `json:"result"`
	Notes     *string `json:"notes"`
	ReportKey *string `json:"report_key"`
}

var (
	ErrPolygraphExamNotFound = errors.New("polygraph exam not found")
	ErrInvalidPolygraphResult = errors.New("invalid polygraph result")
)

// ValidPolygraphResult reports whether r is a known exam outcome.
func ValidPolygraphResult(r string) bool {
	return r == PolygraphPass || r == PolygraphFail || r == PolygraphInconclusive
}
