package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"steadypath/internal/model"
	"steadypath/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockAssignmentRepository struct {
	createFn       func(ctx context.Context, a *model.Assignment) error
	getByIDFn      func(ctx context.Context, id int64) (*model.Assignment, error)
	markCompleteFn func(ctx context.Context, assignmentID, userID int64, at time.Time) error

	markCompleteCalls int
}

func (m *mockAssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	a.ID = 1
	return nil
}

func (m *mockAssignmentRepository) GetByID(ctx context.Context, id int64) (*model.Assignment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.Assignment{ID: id}, nil
}

func (m *mockAssignmentRepository) ListWithStatus(ctx context.Context, userID int64) ([]model.AssignmentWithStatus, error) {
	return nil, nil
}

func (m *mockAssignmentRepository) MarkComplete(ctx context.Context, assignmentID, userID int64, at time.Time) error {
	m.markCompleteCalls++
	if m.markCompleteFn != nil {
		return m.markCompleteFn(ctx, assignmentID, userID, at)
	}
	return nil
}

func (m *mockAssignmentRepository) UnmarkComplete(ctx context.Context, assignmentID, userID int64) error {
	return nil
}

func (m *mockAssignmentRepository) Delete(ctx context.Context, id int64) error {
	return nil
}

// mockAssignmentPublisher records events published through the queue.Publisher
// interface.
type mockAssignmentPublisher struct {
	published []queue.NotifyEvent
	err       error
}

func (m *mockAssignmentPublisher) Publish(ctx context.Context, stream string, event queue.NotifyEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.published = append(m.published, event)
	return "1-0", nil
}

func (m *mockAssignmentPublisher) PublishAssignmentCreated(ctx context.Context, assignmentID, actorID int64, title string) (string, error) {
	return m.Publish(ctx, queue.StreamNotify, queue.NewAssignmentCreatedEvent(assignmentID, actorID, title))
}

// =============================================================================
// CREATE
// =============================================================================

func TestAssignmentService_Create_PublishesFanOutEvent(t *testing.T) {
	repo := &mockAssignmentRepository{
		createFn: func(ctx context.Context, a *model.Assignment) error {
			a.ID = 42
			return nil
		},
	}
	publisher := &mockAssignmentPublisher{}
	svc := NewAssignmentService(repo, publisher)

	a, err := svc.Create(context.Background(), 9, &model.CreateAssignmentRequest{Title: "Chapter 5 worksheet"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if a.ID != 42 {
		t.Errorf("assignment ID = %d, want 42", a.ID)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.published))
	}
	event := publisher.published[0]
	if event.Type != queue.EventAssignmentCreated {
		t.Errorf("event type = %q, want %q", event.Type, queue.EventAssignmentCreated)
	}
	if event.AssignmentID != 42 || event.ActorID != 9 {
		t.Errorf("event = assignment %d actor %d, want assignment 42 actor 9", event.AssignmentID, event.ActorID)
	}
	if event.Title != "Chapter 5 worksheet" {
		t.Errorf("event title = %q", event.Title)
	}
}

func TestAssignmentService_Create_SurvivesPublishFailure(t *testing.T) {
	// A queue outage must not undo the created assignment.
	repo := &mockAssignmentRepository{}
	publisher := &mockAssignmentPublisher{err: errors.New("redis down")}
	svc := NewAssignmentService(repo, publisher)

	a, err := svc.Create(context.Background(), 9, &model.CreateAssignmentRequest{Title: "Relapse plan draft"})
	if err != nil {
		t.Fatalf("expected create to succeed despite publish failure, got: %v", err)
	}
	if a == nil || a.ID == 0 {
		t.Error("expected a persisted assignment back")
	}
}

func TestAssignmentService_Create_RequiresTitle(t *testing.T) {
	publisher := &mockAssignmentPublisher{}
	svc := NewAssignmentService(&mockAssignmentRepository{}, publisher)

	_, err := svc.Create(context.Background(), 9, &model.CreateAssignmentRequest{})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Error("nothing should be published for a rejected assignment")
	}
}

// =============================================================================
// COMPLETION
// =============================================================================

func TestAssignmentService_MarkComplete_UnknownAssignment(t *testing.T) {
	repo := &mockAssignmentRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Assignment, error) {
			return nil, model.ErrAssignmentNotFound
		},
	}
	svc := NewAssignmentService(repo, &mockAssignmentPublisher{})

	err := svc.MarkComplete(context.Background(), 404, 1)
	if !errors.Is(err, model.ErrAssignmentNotFound) {
		t.Fatalf("expected not-found error, got: %v", err)
	}
	if repo.markCompleteCalls != 0 {
		t.Error("completion must not be written for a missing assignment")
	}
}
