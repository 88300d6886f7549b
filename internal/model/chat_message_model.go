package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id            int64          `gorm:"primaryKey;autoIncrement"`
	ChatSessionId uuid.UUID      `gorm:"column:session_id;type:uuid;not null;index"`
	Role          string         `gorm:"type:varchar(10);not null"`
	Content       string         `gorm:"type:text;not null"`
	Meta          datatypes.JSON `gorm:"type:jsonb"` // generation metadata on model turns, null otherwise
	CreatedAt     time.Time      `gorm:"autoCreateTime"`

	Session *ChatSession `gorm:"foreignKey:ChatSessionId;constraint:OnDelete:CASCADE"`
}

func (ChatMessage) TableName() string {
	return "messages"
}
