package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IAuditService interface {
	Consume(ctx context.Context) error
}

// auditService subscribes to chat lifecycle events and writes them to an
// isolated audit log, keeping the request path free of audit I/O.
type auditService struct {
	subscriber message.Subscriber
	log        logger.ILogger
}

func NewAuditService(subscriber message.Subscriber, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		log:        log,
	}
}

func (as *auditService) Consume(ctx context.Context) error {
	messages, err := as.subscriber.Subscribe(ctx, events.TopicChatActivity)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(msg)
		}
	}()

	return nil
}

type auditEnvelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (as *auditService) processMessage(msg *message.Message) {
	var envelope auditEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		as.log.Warn("audit", "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // ack malformed messages to prevent infinite redelivery
		return
	}

	details := map[string]interface{}{
		"occurred_at": envelope.OccurredAt,
	}
	for k, v := range envelope.Data {
		details[k] = v
	}
	as.log.Info("audit", envelope.Type, details)

	msg.Ack()
}
