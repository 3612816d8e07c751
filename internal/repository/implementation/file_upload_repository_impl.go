package implementation

import (
	"context"
	"errors"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/mapper"
	"support-chat-be/internal/model"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type FileUploadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewFileUploadRepository(db *gorm.DB) contract.FileUploadRepository {
	return &FileUploadRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *FileUploadRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FileUploadRepositoryImpl) Create(ctx context.Context, upload *entity.FileUpload) error {
	m := r.mapper.ToModel(upload)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*upload = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileUploadRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileUpload, error) {
	var m model.FileUpload
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FileUploadRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileUpload, error) {
	var models []*model.FileUpload
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	uploads := make([]*entity.FileUpload, len(models))
	for i, m := range models {
		uploads[i] = r.mapper.ToEntity(m)
	}
	return uploads, nil
}
