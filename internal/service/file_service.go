package service

import (
	"context"
	"fmt"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/pkg/storage"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/events"

	"github.com/google/uuid"
)

type IFileService interface {
	// Upload stores the blob and records it as a file message in the session.
	// Ended sessions reject uploads.
	Upload(ctx context.Context, sessionID, uploaderID uuid.UUID, fileName string, content []byte) (*dto.FileUploadResponse, error)

	// GetFile resolves a stored name back to its bytes and original name.
	GetFile(ctx context.Context, storedName string) ([]byte, string, error)
}

type fileService struct {
	uowFactory unitofwork.RepositoryFactory
	store      storage.FileStore
	eventBus   IEventBus
	logger     logger.ILogger
}

func NewFileService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.FileStore,
	eventBus IEventBus,
	log logger.ILogger,
) IFileService {
	return &fileService{
		uowFactory: uowFactory,
		store:      store,
		eventBus:   eventBus,
		logger:     log,
	}
}

func (s *fileService) Upload(ctx context.Context, sessionID, uploaderID uuid.UUID, fileName string, content []byte) (*dto.FileUploadResponse, error) {
	if len(content) == 0 {
		return nil, ErrEmptyContent
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.IsEnded() {
		return nil, ErrSessionEnded
	}

	storedName, err := s.store.Save(fileName, content)
	if err != nil {
		return nil, err
	}

	upload := &entity.FileUpload{
		Id:            uuid.New(),
		ChatSessionId: sessionID,
		UploaderId:    uploaderID,
		FileName:      fileName,
		FilePath:      storedName,
		UploadedAt:    time.Now(),
	}
	message := &entity.Message{
		Id:            uuid.New(),
		ChatSessionId: sessionID,
		SenderId:      uploaderID,
		Content:       fileURL(storedName),
		IsFile:        true,
		SentAt:        upload.UploadedAt,
	}

	if err := uow.Begin(ctx); err != nil {
		s.removeStored(storedName)
		return nil, err
	}
	if err := uow.FileUploadRepository().Create(ctx, upload); err != nil {
		uow.Rollback()
		s.removeStored(storedName)
		return nil, err
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		uow.Rollback()
		s.removeStored(storedName)
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		s.removeStored(storedName)
		return nil, err
	}

	s.publish(ctx, events.NewChangeEvent(events.TypeFileUploaded, uploaderID.String(), nil, map[string]interface{}{
		"upload_id":  upload.Id.String(),
		"session_id": sessionID.String(),
		"file_name":  fileName,
	}))
	s.logger.Info("FileService", "File uploaded", map[string]interface{}{
		"session_id": sessionID.String(),
		"file_name":  fileName,
	})

	return &dto.FileUploadResponse{
		FileName: fileName,
		FileUrl:  fileURL(storedName),
	}, nil
}

func (s *fileService) GetFile(ctx context.Context, storedName string) ([]byte, string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	upload, err := uow.FileUploadRepository().FindOne(ctx, specification.ByFilePath{Path: storedName})
	if err != nil {
		return nil, "", err
	}
	if upload == nil {
		return nil, "", ErrNotFound
	}

	content, err := s.store.Read(upload.FilePath)
	if err != nil {
		return nil, "", ErrNotFound
	}
	return content, upload.FileName, nil
}

// removeStored undoes a blob write after the database rejected its metadata.
func (s *fileService) removeStored(storedName string) {
	if err := s.store.Remove(storedName); err != nil {
		s.logger.Warn("FileService", "Failed to remove orphaned upload", map[string]interface{}{
			"stored_name": storedName,
			"error":       err.Error(),
		})
	}
}

func (s *fileService) publish(ctx context.Context, event events.Event) {
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("FileService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func fileURL(storedName string) string {
	return fmt.Sprintf("/uploads/%s", storedName)
}
