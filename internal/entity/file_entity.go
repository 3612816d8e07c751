package entity

import (
	"time"

	"github.com/google/uuid"
)

type FileUpload struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	UploaderId    uuid.UUID
	FileName      string
	FilePath      string
	UploadedAt    time.Time
}
