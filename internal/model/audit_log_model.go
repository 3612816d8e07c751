package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Table     string         `gorm:"column:table_name;type:varchar(100);not null"`
	Action    string         `gorm:"type:varchar(50);not null"`
	OldValue  datatypes.JSON `gorm:"type:jsonb"`
	NewValue  datatypes.JSON `gorm:"type:jsonb"`
	UserId    string         `gorm:"type:varchar(100);not null;default:'System'"`
	Timestamp time.Time      `gorm:"autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
