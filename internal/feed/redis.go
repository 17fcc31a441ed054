package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"codeberg.org/gemiwell/server/internal/logger"
	"github.com/redis/go-redis/v9"
)

// publishes user events to every server instance through redis
type RedisPublisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, userID string, ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.rdb.Publish(ctx, ChannelPrefix+userID, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// builds an event whose data is the given document
func NewEvent(eventType, collection, documentID string, document any) (Event, error) {
	ev := Event{
		Type:       eventType,
		Collection: collection,
		DocumentID: documentID,
		Timestamp:  time.Now().UTC(),
	}

	if document != nil {
		data, err := json.Marshal(document)
		if err != nil {
			return Event{}, fmt.Errorf("failed to encode %s document: %w", collection, err)
		}

		ev.Data = data
	}

	return ev, nil
}

// publishes a document change, logging instead of failing; the change itself already happened
func Notify(ctx context.Context, p Publisher, userID, eventType, collection, documentID string, document any) {
	if p == nil {
		return
	}

	ev, err := NewEvent(eventType, collection, documentID, document)
	if err == nil {
		err = p.Publish(ctx, userID, ev)
	}

	if err != nil {
		logger.FromContext(ctx).Warn("failed to publish feed event",
			"type", eventType,
			"document_id", documentID,
			"error", err,
		)
	}
}

// forwards every published event to the hub's local clients until ctx is done
func Relay(ctx context.Context, rdb *redis.Client, hub *Hub) error {
	pubsub := rdb.PSubscribe(ctx, ChannelPrefix+"*")
	defer pubsub.Close() //nolint:errcheck // shutting down

	// wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to feed: %w", err)
	}

	logger.Info("feed relay subscribed", "pattern", ChannelPrefix+"*")

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			userID := strings.TrimPrefix(msg.Channel, ChannelPrefix)
			if userID == "" {
				continue
			}

			hub.Deliver(userID, []byte(msg.Payload))
		}
	}
}
