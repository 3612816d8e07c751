package mapper

import (
	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"
)

type FileMapper struct{}

func NewFileMapper() *FileMapper {
	return &FileMapper{}
}

func (m *FileMapper) ToEntity(f *model.FileUpload) *entity.FileUpload {
	if f == nil {
		return nil
	}
	return &entity.FileUpload{
		Id:            f.Id,
		ChatSessionId: f.ChatSessionId,
		UploaderId:    f.UploaderId,
		FileName:      f.FileName,
		FilePath:      f.FilePath,
		UploadedAt:    f.UploadedAt,
	}
}

func (m *FileMapper) ToModel(f *entity.FileUpload) *model.FileUpload {
	if f == nil {
		return nil
	}
	return &model.FileUpload{
		Id:            f.Id,
		ChatSessionId: f.ChatSessionId,
		UploaderId:    f.UploaderId,
		FileName:      f.FileName,
		FilePath:      f.FilePath,
		UploadedAt:    f.UploadedAt,
	}
}
