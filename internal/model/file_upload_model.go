package model

import (
	"time"

	"github.com/google/uuid"
)

type FileUpload struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	UploaderId    uuid.UUID `gorm:"type:uuid;not null"`
	FileName      string    `gorm:"type:text;not null"`
	FilePath      string    `gorm:"type:text;not null"`
	UploadedAt    time.Time `gorm:"autoCreateTime"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}
