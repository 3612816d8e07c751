package scope

import "gorm.io/gorm"

func OrderBySentAsc(db *gorm.DB) *gorm.DB {
	return db.Order("sent_at ASC")
}

func OrderByStartedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("started_at DESC")
}
