package specification

import "gorm.io/gorm"

type ByFilePath struct {
	Path string
}

func (s ByFilePath) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_path = ?", s.Path)
}
