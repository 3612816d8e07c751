package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AgentId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status    string     `gorm:"type:varchar(50);not null;default:'Active'"`
	StartedAt time.Time  `gorm:"autoCreateTime"`
	EndedAt   *time.Time
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
