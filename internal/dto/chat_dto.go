package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartChatRequest struct {
	UserId uuid.UUID `json:"userId" validate:"required"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	UserId    uuid.UUID  `json:"userId"`
	AgentId   uuid.UUID  `json:"agentId"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

type SendMessageRequest struct {
	ChatSessionId uuid.UUID `json:"chatSessionId" validate:"required"`
	SenderId      uuid.UUID `json:"senderId" validate:"required"`
	Content       string    `json:"content" validate:"required"`
	IsFile        bool      `json:"isFile"`
}

type MessageResponse struct {
	Id            uuid.UUID `json:"id"`
	ChatSessionId uuid.UUID `json:"chatSessionId"`
	SenderId      uuid.UUID `json:"senderId"`
	Content       string    `json:"content"`
	IsFile        bool      `json:"isFile"`
	SentAt        time.Time `json:"sentAt"`
}
