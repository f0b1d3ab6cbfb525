package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"steadypath/internal/model"
	"steadypath/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================

// mockStreamConsumer implements queue.Consumer in memory. Pending messages are
// served once through ReadPending; Read blocks for its timeout and returns
// nothing, like an idle stream.
type mockStreamConsumer struct {
	mu      sync.Mutex
	pending []queue.Message
	acked   []string
	groups  int
}

func (m *mockStreamConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups++
	return nil
}

func (m *mockStreamConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]queue.Message, error) {
	select {
	case <-ctx.Done():
	case <-time.After(block):
	}
	return nil, nil
}

func (m *mockStreamConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, messageIDs...)
	return nil
}

func (m *mockStreamConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.pending)), nil
}

func (m *mockStreamConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]queue.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.pending
	m.pending = nil
	return msgs, nil
}

func (m *mockStreamConsumer) ackedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// =============================================================================
// PENDING RECOVERY
// =============================================================================

func TestManager_DrainsPendingMessagesOnStart(t *testing.T) {
	// A message delivered before a crash sits in the pending list; a fresh
	// worker must process and ack it before reading new messages.
	consumer := &mockStreamConsumer{
		pending: []queue.Message{
			{ID: "1700000000000-0", Event: queue.NewAssignmentCreatedEvent(7, 9, "Step work review")},
		},
	}
	store := &mockNotificationStore{}
	handler := NewHandler(
		&mockRecipientSource{ids: []int64{1}},
		&mockTokenSource{tokens: map[int64][]model.DeviceToken{}},
		store,
		&mockPushSender{},
	)

	m := NewManager(consumer, handler, ManagerConfig{
		WorkerCount:  1,
		BlockTimeout: 10 * time.Millisecond,
	})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	waitFor(t, "pending message ack", func() bool {
		return len(consumer.ackedIDs()) == 1
	})
	m.Stop()

	if got := consumer.ackedIDs(); len(got) != 1 || got[0] != "1700000000000-0" {
		t.Errorf("acked %v, want the pending message", got)
	}
	if len(store.batches) != 1 {
		t.Fatalf("expected the pending event to reach the handler, got %d batches", len(store.batches))
	}
	if store.batches[0].title == "" {
		t.Error("expected a notification row from the recovered event")
	}
	if consumer.groups == 0 {
		t.Error("expected the consumer group to be ensured at startup")
	}
}

func TestManager_StopWaitsForWorkers(t *testing.T) {
	consumer := &mockStreamConsumer{}
	handler := NewHandler(
		&mockRecipientSource{},
		&mockTokenSource{},
		&mockNotificationStore{},
		&mockPushSender{},
	)

	m := NewManager(consumer, handler, ManagerConfig{
		WorkerCount:  2,
		BlockTimeout: 10 * time.Millisecond,
	})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after cancelling the workers")
	}
}
