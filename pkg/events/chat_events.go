package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicChatActivity carries every chat lifecycle event; consumers filter
// on EventType.
const TopicChatActivity = "CHAT_ACTIVITY"

const (
	TypeSessionCreated = "CHAT_SESSION_CREATED"
	TypeSessionDeleted = "CHAT_SESSION_DELETED"
	TypeTurnRecorded   = "CHAT_TURN_RECORDED"
)

func NewSessionCreated(sessionId uuid.UUID, owner string) Event {
	return BaseEvent{
		Type: TypeSessionCreated,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"owner":      owner,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionDeleted(sessionId uuid.UUID, owner string, messageCount int64) Event {
	return BaseEvent{
		Type: TypeSessionDeleted,
		Data: map[string]interface{}{
			"session_id":    sessionId.String(),
			"owner":         owner,
			"message_count": messageCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewTurnRecorded(sessionId uuid.UUID, owner string, elapsed time.Duration) Event {
	return BaseEvent{
		Type: TypeTurnRecorded,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"owner":      owner,
			"elapsed_ms": elapsed.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}
