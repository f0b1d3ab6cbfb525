package worker

import (
	"context"
	"fmt"
	"log"

	"steadypath/internal/model"
	"steadypath/internal/queue"
)

// RecipientSource lists the users an event fans out to.
type RecipientSource interface {
	ListClientIDs(ctx context.Context) ([]int64, error)
}

// TokenSource resolves a user's registered push tokens.
type TokenSource interface {
	GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error)
}

// NotificationStore persists in-app notification rows.
type NotificationStore interface {
	CreateBatch(ctx context.Context, userIDs []int64, notifType string, assignmentID *int64, title, body string) error
}

// PushSender delivers a push to a set of device tokens.
type PushSender interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// Handler turns stream events into notification rows and pushes.
type Handler struct {
	recipients    RecipientSource
	tokens        TokenSource
	notifications NotificationStore
	push          PushSender // nil when push is not configured
}

func NewHandler(recipients RecipientSource, tokens TokenSource, notifications NotificationStore, push PushSender) *Handler {
	return &Handler{
		recipients:    recipients,
		tokens:        tokens,
		notifications: notifications,
		push:          push,
	}
}

// HandleEvent routes an event to its handler.
func (h *Handler) HandleEvent(ctx context.Context, event queue.NotifyEvent) error {
	switch event.Type {
	case queue.EventAssignmentCreated:
		return h.handleAssignmentCreated(ctx, event)
	default:
		// Unknown events are acked and dropped so a stale producer can't
		// wedge the stream.
		log.Printf("[Handler] Unknown event type: %s", event.Type)
		return nil
	}
}

// handleAssignmentCreated fans an assignment out to every client: one
// notification row each, then a best-effort push per client. A push failure
// for one client does not stop the rest.
func (h *Handler) handleAssignmentCreated(ctx context.Context, event queue.NotifyEvent) error {
	clientIDs, err := h.recipients.ListClientIDs(ctx)
	if err != nil {
		return fmt.Errorf("list recipients: %w", err)
	}
	if len(clientIDs) == 0 {
		return nil
	}

	title := "New Assignment"
	body := event.Title
	if body == "" {
		body = "A new assignment has been posted."
	}

	assignmentID := event.AssignmentID
	if err := h.notifications.CreateBatch(ctx, clientIDs, model.NotificationTypeAssignment, &assignmentID, title, body); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}

	if h.push == nil {
		return nil
	}

	data := map[string]string{
		"type":          model.NotificationTypeAssignment,
		"assignment_id": fmt.Sprintf("%d", assignmentID),
		"link":          "/assignments",
	}

	pushed := 0
	for _, userID := range clientIDs {
		tokens, err := h.tokens.GetByUserID(ctx, userID)
		if err != nil {
			log.Printf("[Handler] token lookup failed: user=%d err=%v", userID, err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		tokenStrings := make([]string, len(tokens))
		for i, t := range tokens {
			tokenStrings[i] = t.Token
		}

		if err := h.push.SendToTokens(ctx, tokenStrings, title, body, data); err != nil {
			log.Printf("[Handler] push failed: user=%d err=%v", userID, err)
			continue
		}
		pushed++
	}

	log.Printf("[Handler] assignment=%d fanned out: recipients=%d pushed=%d", assignmentID, len(clientIDs), pushed)
	return nil
}
