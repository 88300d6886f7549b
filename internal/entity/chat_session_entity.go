package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID
	Owner     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
