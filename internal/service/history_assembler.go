package service

import (
	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"
	"ai-chat-be/pkg/llm"
)

// BuildHistory converts a session's ordered turns into the role/content
// sequence the generation backend expects, mapping the stored "model" role
// onto the backend's "assistant". Turns are never reordered or dropped and
// no system turns are injected.
func BuildHistory(messages []*entity.ChatMessage) []llm.Message {
	history := make([]llm.Message, len(messages))
	for i, msg := range messages {
		role := msg.Role
		if role == constant.ChatMessageRoleModel {
			role = constant.LLMRoleAssistant
		}
		history[i] = llm.Message{
			Role:    role,
			Content: msg.Content,
		}
	}
	return history
}
