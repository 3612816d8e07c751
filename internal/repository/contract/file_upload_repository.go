package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
)

type FileUploadRepository interface {
	Create(ctx context.Context, upload *entity.FileUpload) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileUpload, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileUpload, error)
}
