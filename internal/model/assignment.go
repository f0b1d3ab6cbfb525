package model

import (
	"errors"
	"time"
)

// Assignment is a syllabus item published by a facilitator for every client
// in the program.
type Assignment struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Chapter     *int       `db:"chapter" json:"chapter,omitempty"`
	Description *string    `db:"description" json:"description,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedBy   int64      `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// AssignmentWithStatus merges an assignment with the requesting client's
// completion state.
type AssignmentWithStatus struct {
	Assignment
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// CreateAssignmentRequest is the body for POST /assignments.
type CreateAssignmentRequest struct {
	Title       string  `json:"title"`
	Chapter     *int    `json:"chapter"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
}

var ErrAssignmentNotFound = errors.New("assignment not found")
