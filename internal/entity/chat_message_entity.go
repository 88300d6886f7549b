package entity

import (
	"time"

	"github.com/google/uuid"
)

// GenerationMeta describes the backend call that produced a model turn.
type GenerationMeta struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type ChatMessage struct {
	Id            int64
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Meta          *GenerationMeta
	CreatedAt     time.Time
}
