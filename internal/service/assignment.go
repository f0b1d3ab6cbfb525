package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"steadypath/internal/model"
	"steadypath/internal/queue"
	"steadypath/internal/repository"
)

// AssignmentService handles the facilitator syllabus and per-client
// completion. Creating an assignment enqueues a fan-out event; the workers
// turn it into in-app notifications and pushes for every client, so the
// facilitator's request returns without waiting on FCM.
type AssignmentService struct {
	repo      repository.AssignmentRepository
	publisher queue.Publisher
}

func NewAssignmentService(repo repository.AssignmentRepository, publisher queue.Publisher) *AssignmentService {
	return &AssignmentService{
		repo:      repo,
		publisher: publisher,
	}
}

// Create publishes a new assignment to every client.
func (s *AssignmentService) Create(ctx context.Context, facilitatorID int64, req *model.CreateAssignmentRequest) (*model.Assignment, error) {
	if req.Title == "" {
		return nil, invalidf("title is required")
	}

	a := &model.Assignment{
		Title:       req.Title,
		Chapter:     req.Chapter,
		Description: req.Description,
		CreatedBy:   facilitatorID,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.ParseInLocation(dateLayout, *req.DueDate, time.UTC)
		if err != nil {
			return nil, invalidf("invalid due_date, expected YYYY-MM-DD")
		}
		a.DueDate = &d
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	// Fire-and-forget: a queue outage must not undo the created assignment.
	if s.publisher != nil {
		if _, err := s.publisher.PublishAssignmentCreated(ctx, a.ID, facilitatorID, a.Title); err != nil {
			log.Printf("[Assignment] fan-out publish failed: assignment=%d err=%v", a.ID, err)
		}
	}

	return a, nil
}

// ListForUser returns every assignment with the user's completion state,
// newest first.
func (s *AssignmentService) ListForUser(ctx context.Context, userID int64) ([]model.AssignmentWithStatus, error) {
	assignments, err := s.repo.ListWithStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// MarkComplete records that the user finished the assignment. Marking twice
// is a no-op.
func (s *AssignmentService) MarkComplete(ctx context.Context, assignmentID, userID int64) error {
	if _, err := s.repo.GetByID(ctx, assignmentID); err != nil {
		return err
	}
	return s.repo.MarkComplete(ctx, assignmentID, userID, time.Now().UTC())
}

// UnmarkComplete clears the user's completion.
func (s *AssignmentService) UnmarkComplete(ctx context.Context, assignmentID, userID int64) error {
	if _, err := s.repo.GetByID(ctx, assignmentID); err != nil {
		return err
	}
	return s.repo.UnmarkComplete(ctx, assignmentID, userID)
}

// Delete removes an assignment from the syllabus.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
