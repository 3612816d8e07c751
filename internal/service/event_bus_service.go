package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"support-chat-be/internal/pkg/logger"
	"support-chat-be/pkg/events"
	pktNats "support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IEventBus interface {
	Publish(ctx context.Context, event events.Event) error
}

// eventBus fans domain events out on the in-process watermill channel (the
// audit consumer listens there) and mirrors them to NATS when a publisher is
// configured. The mirror is best-effort: a NATS failure never fails the
// originating request.
type eventBus struct {
	pubSub  *gochannel.GoChannel
	topic   string
	natsPub *pktNats.Publisher
	logger  logger.ILogger
}

type eventEnvelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewEventBus(pubSub *gochannel.GoChannel, topic string, natsPub *pktNats.Publisher, log logger.ILogger) IEventBus {
	return &eventBus{
		pubSub:  pubSub,
		topic:   topic,
		natsPub: natsPub,
		logger:  log,
	}
}

func (b *eventBus) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(eventEnvelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}

	if b.natsPub != nil {
		if err := b.natsPub.Publish(ctx, event); err != nil {
			b.logger.Warn("EventBus", "Failed to mirror event to NATS", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}

	return nil
}
