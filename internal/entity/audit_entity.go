package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a single write against the store. Rows are produced by the
// audit consumer from domain events, not inline with the write itself.
type AuditLog struct {
	Id        uuid.UUID
	TableName string
	Action    string
	OldValue  map[string]interface{}
	NewValue  map[string]interface{}
	UserId    string
	Timestamp time.Time
}
