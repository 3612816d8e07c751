package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive SessionStatus = "Active"
	SessionStatusEnded  SessionStatus = "Ended"
)

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	AgentId   uuid.UUID
	Status    SessionStatus
	StartedAt time.Time
	EndedAt   *time.Time
}

func (s *ChatSession) IsEnded() bool {
	return s.Status == SessionStatusEnded
}

// Message is append-only: never mutated or deleted after creation.
type Message struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	SenderId      uuid.UUID
	Content       string
	IsFile        bool
	SentAt        time.Time
}
