package repository

import (
	"context"

	"toolwatch/internal/entity"

	"gorm.io/gorm"
)

// ExecutionRecordRepository defines the interface for persisting execution
// outcomes on the runner side.
type ExecutionRecordRepository interface {
	Create(ctx context.Context, record *entity.ExecutionRecord) error
}

// NewExecutionRecordRepository creates a new GORM-based execution record repository.
func NewExecutionRecordRepository(db *gorm.DB) ExecutionRecordRepository {
	return &executionRecordRepository{db: db}
}

type executionRecordRepository struct {
	db *gorm.DB
}

// Create persists a new execution record.
func (r *executionRecordRepository) Create(ctx context.Context, record *entity.ExecutionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
