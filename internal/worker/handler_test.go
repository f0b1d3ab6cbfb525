package worker

import (
	"context"
	"errors"
	"testing"

	"steadypath/internal/model"
	"steadypath/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockRecipientSource struct {
	ids []int64
	err error
}

func (m *mockRecipientSource) ListClientIDs(ctx context.Context) ([]int64, error) {
	return m.ids, m.err
}

type mockTokenSource struct {
	tokens map[int64][]model.DeviceToken
}

func (m *mockTokenSource) GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
	return m.tokens[userID], nil
}

type mockNotificationStore struct {
	batches []batchCall
	err     error
}

type batchCall struct {
	userIDs      []int64
	notifType    string
	assignmentID *int64
	title, body  string
}

func (m *mockNotificationStore) CreateBatch(ctx context.Context, userIDs []int64, notifType string, assignmentID *int64, title, body string) error {
	m.batches = append(m.batches, batchCall{userIDs, notifType, assignmentID, title, body})
	return m.err
}

type mockPushSender struct {
	sends []pushCall
	err   error
}

type pushCall struct {
	tokens []string
	title  string
	data   map[string]string
}

func (m *mockPushSender) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	m.sends = append(m.sends, pushCall{tokens: tokens, title: title, data: data})
	return m.err
}

// =============================================================================
// ASSIGNMENT FAN-OUT
// =============================================================================

func TestHandler_AssignmentCreated_FansOutToClients(t *testing.T) {
	recipients := &mockRecipientSource{ids: []int64{1, 2, 3}}
	tokens := &mockTokenSource{tokens: map[int64][]model.DeviceToken{
		1: {{Token: "tok-1"}},
		3: {{Token: "tok-3a"}, {Token: "tok-3b"}},
		// user 2 has no devices
	}}
	store := &mockNotificationStore{}
	push := &mockPushSender{}
	h := NewHandler(recipients, tokens, store, push)

	event := queue.NewAssignmentCreatedEvent(42, 9, "Chapter 5 worksheet")
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(store.batches) != 1 {
		t.Fatalf("expected one notification batch, got %d", len(store.batches))
	}
	batch := store.batches[0]
	if len(batch.userIDs) != 3 {
		t.Errorf("batch covers %d users, want 3", len(batch.userIDs))
	}
	if batch.notifType != model.NotificationTypeAssignment {
		t.Errorf("type = %q, want assignment", batch.notifType)
	}
	if batch.assignmentID == nil || *batch.assignmentID != 42 {
		t.Errorf("assignment ID not carried: %v", batch.assignmentID)
	}
	if batch.body != "Chapter 5 worksheet" {
		t.Errorf("body = %q, want the assignment title", batch.body)
	}

	// Pushes go only to users with tokens.
	if len(push.sends) != 2 {
		t.Fatalf("expected 2 pushes, got %d", len(push.sends))
	}
	for _, s := range push.sends {
		if s.data["link"] != "/assignments" {
			t.Errorf("push deep link = %q, want /assignments", s.data["link"])
		}
	}
}

func TestHandler_AssignmentCreated_NoClients(t *testing.T) {
	store := &mockNotificationStore{}
	h := NewHandler(&mockRecipientSource{}, &mockTokenSource{}, store, &mockPushSender{})

	if err := h.HandleEvent(context.Background(), queue.NewAssignmentCreatedEvent(1, 9, "x")); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(store.batches) != 0 {
		t.Error("no batch should be written without recipients")
	}
}

func TestHandler_AssignmentCreated_StoreFailurePropagates(t *testing.T) {
	recipients := &mockRecipientSource{ids: []int64{1}}
	store := &mockNotificationStore{err: errors.New("insert failed")}
	push := &mockPushSender{}
	h := NewHandler(recipients, &mockTokenSource{}, store, push)

	if err := h.HandleEvent(context.Background(), queue.NewAssignmentCreatedEvent(1, 9, "x")); err == nil {
		t.Fatal("expected the store error to propagate")
	}
	if len(push.sends) != 0 {
		t.Error("no push should follow a failed notification write")
	}
}

func TestHandler_AssignmentCreated_PushFailureIsIsolated(t *testing.T) {
	recipients := &mockRecipientSource{ids: []int64{1, 2}}
	tokens := &mockTokenSource{tokens: map[int64][]model.DeviceToken{
		1: {{Token: "tok-1"}},
		2: {{Token: "tok-2"}},
	}}
	push := &mockPushSender{err: errors.New("fcm unavailable")}
	h := NewHandler(recipients, tokens, &mockNotificationStore{}, push)

	// Push errors are logged per user, never returned.
	if err := h.HandleEvent(context.Background(), queue.NewAssignmentCreatedEvent(1, 9, "x")); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(push.sends) != 2 {
		t.Errorf("both users should still be attempted, got %d", len(push.sends))
	}
}

func TestHandler_UnknownEventIsDropped(t *testing.T) {
	h := NewHandler(&mockRecipientSource{}, &mockTokenSource{}, &mockNotificationStore{}, &mockPushSender{})

	event := queue.NotifyEvent{Type: "something_else"}
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown events must be dropped without error, got: %v", err)
	}
}
