package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// SendChatResponse is the contract the web client consumes after a turn.
// SessionName is only populated when the turn created the session.
type SendChatResponse struct {
	Message     string    `json:"message"`
	SessionId   uuid.UUID `json:"sessionId"`
	SessionName string    `json:"sessionName,omitempty"`
}

type SessionDTO struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MessageDTO struct {
	Id        int64     `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ListSessionsResponse struct {
	Sessions []*SessionDTO `json:"sessions"`
}

type GetSessionResponse struct {
	Session  *SessionDTO   `json:"session"`
	Messages []*MessageDTO `json:"messages"`
}

type RenameSessionRequest struct {
	NewName string `json:"newName" validate:"required"`
}

type RenameSessionResponse struct {
	Message string      `json:"message"`
	Session *SessionDTO `json:"session"`
}

type DeleteSessionResponse struct {
	Message   string    `json:"message"`
	SessionId uuid.UUID `json:"sessionId"`
}
