package unitofwork

import (
	"context"

	"support-chat-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to a single logical operation. Begin
// promotes it to a database transaction; until then repositories run against
// the shared connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	MessageRepository() contract.MessageRepository
	FileUploadRepository() contract.FileUploadRepository
	AuditLogRepository() contract.AuditLogRepository
}
