package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher publishes events to a stream.
type Publisher interface {
	// Publish adds an event to the stream and returns the Redis message ID.
	Publish(ctx context.Context, stream string, event NotifyEvent) (messageID string, err error)

	// PublishAssignmentCreated publishes the assignment fan-out event.
	PublishAssignmentCreated(ctx context.Context, assignmentID, actorID int64, title string) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish uses XADD with "*" so Redis assigns the message ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event NotifyEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s msgID=%s", stream, event.Type, messageID)
	return messageID, nil
}

// PublishAssignmentCreated is a convenience wrapper for the assignment event.
func (p *RedisPublisher) PublishAssignmentCreated(ctx context.Context, assignmentID, actorID int64, title string) (string, error) {
	return p.Publish(ctx, StreamNotify, NewAssignmentCreatedEvent(assignmentID, actorID, title))
}
