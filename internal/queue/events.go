package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the notification stream
const (
	EventAssignmentCreated = "assignment_created"
)

// Stream names
const (
	StreamNotify = "stream:notify"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotify = "notify_workers"
)

// NotifyEvent is one unit of fan-out work. Producers (HTTP handlers) publish
// it; workers turn it into notification rows and pushes.
type NotifyEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // unix seconds at publish time

	// Assignment events
	AssignmentID int64  `json:"assignment_id,omitempty"`
	ActorID      int64  `json:"actor_id,omitempty"` // facilitator who published
	Title        string `json:"title,omitempty"`    // assignment title, for the push body
}

// NewAssignmentCreatedEvent builds the event published when a facilitator
// posts a new assignment. Workers fan it out to every client.
func NewAssignmentCreatedEvent(assignmentID, actorID int64, title string) NotifyEvent {
	return NotifyEvent{
		Type:         EventAssignmentCreated,
		Timestamp:    time.Now().Unix(),
		AssignmentID: assignmentID,
		ActorID:      actorID,
		Title:        title,
	}
}

// ToMap converts the event to field-value pairs for Redis XADD. The payload is
// JSON in a single "data" field; "type" is duplicated for cheap filtering.
func (e NotifyEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseNotifyEvent parses a NotifyEvent from Redis stream message values.
func ParseNotifyEvent(values map[string]interface{}) (NotifyEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return NotifyEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event NotifyEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return NotifyEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
