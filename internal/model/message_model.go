package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderId      uuid.UUID `gorm:"type:uuid;not null"`
	Content       string    `gorm:"type:text;not null"`
	IsFile        bool      `gorm:"default:false"`
	SentAt        time.Time `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}
