package service

import (
	"context"
	"encoding/json"
	"time"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IAuditService interface {
	Consume(ctx context.Context) error
}

// auditService subscribes to the domain-event topic and persists one
// audit_logs row per event. Writes happen off the request path, so a slow
// audit insert never delays the operation that produced it.
type auditService struct {
	pubSub     *gochannel.GoChannel
	topic      string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

// auditTables maps event types to the table the event describes.
var auditTables = map[string]string{
	events.TypeUserRegistered: "users",
	events.TypeUserUpdated:    "users",
	events.TypeUserDeleted:    "users",
	events.TypeUserLogin:      "refresh_tokens",
	events.TypeSessionStarted: "chat_sessions",
	events.TypeSessionEnded:   "chat_sessions",
	events.TypeMessageSent:    "messages",
	events.TypeFileUploaded:   "file_uploads",
}

func NewAuditService(
	pubSub *gochannel.GoChannel,
	topic string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IAuditService {
	return &auditService{
		pubSub:     pubSub,
		topic:      topic,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		s.logger.Error("AuditService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Malformed payloads are never retriable.
		return
	}

	table, ok := auditTables[envelope.Type]
	if !ok {
		msg.Ack()
		return
	}

	actor, _ := envelope.Data["actor_id"].(string)
	if actor == "" {
		actor = "System"
	}
	oldValue, _ := envelope.Data["old"].(map[string]interface{})
	newValue, _ := envelope.Data["new"].(map[string]interface{})

	entry := &entity.AuditLog{
		Id:        uuid.New(),
		TableName: table,
		Action:    envelope.Type,
		OldValue:  oldValue,
		NewValue:  newValue,
		UserId:    actor,
		Timestamp: envelope.OccurredAt,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditLogRepository().Create(ctx, entry); err != nil {
		s.logger.Error("AuditService", "Failed to persist audit entry", map[string]interface{}{
			"type":  envelope.Type,
			"error": err.Error(),
		})
		msg.Nack() // Store errors are retriable.
		return
	}

	msg.Ack()
}
