package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of the budget assistant conversation.
type ChatMessage struct {
	ID        string
	Content   string
	FromUser  bool
	Timestamp time.Time
}

// NewUserMessage creates a message typed by the user.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{ID: uuid.NewString(), Content: content, FromUser: true, Timestamp: time.Now()}
}

// NewAssistantMessage creates a message produced by the assistant.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{ID: uuid.NewString(), Content: content, Timestamp: time.Now()}
}
