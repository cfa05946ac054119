package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docqa/internal/model"
)

type UploadRecordRepository struct {
	db *gorm.DB
}

func NewUploadRecordRepository(db *gorm.DB) *UploadRecordRepository {
	return &UploadRecordRepository{db: db}
}

func (r *UploadRecordRepository) Create(record *model.UploadRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create upload record failed: %w", err)
	}
	return nil
}

func (r *UploadRecordRepository) ListRecent(limit int) ([]model.UploadRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []model.UploadRecord
	if err := r.db.Order("processed_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list upload records failed: %w", err)
	}
	return records, nil
}
