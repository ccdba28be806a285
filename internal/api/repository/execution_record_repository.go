package repository

import (
	"context"
	"time"

	"toolwatch/internal/entity"

	"gorm.io/gorm"
)

// RecordAggregate carries the SQL-side aggregate used by the stats
// endpoint. TimedCount counts records with an execution time so averages
// skip absent durations.
type RecordAggregate struct {
	Total        int64
	SuccessCount int64
	TimedCount   int64
	TotalTime    float64
}

// ExecutionRecordRepository defines the interface for execution record
// data operations.
type ExecutionRecordRepository interface {
	Create(ctx context.Context, record *entity.ExecutionRecord) error
	FindRecent(ctx context.Context, limit int) ([]entity.ExecutionRecord, error)
	Aggregate(ctx context.Context) (*RecordAggregate, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewExecutionRecordRepository creates a new GORM-based execution record
// repository.
func NewExecutionRecordRepository(db *gorm.DB) ExecutionRecordRepository {
	return &executionRecordRepository{db: db}
}

type executionRecordRepository struct {
	db *gorm.DB
}

// Create stores a new execution record.
func (r *executionRecordRepository) Create(ctx context.Context, record *entity.ExecutionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindRecent retrieves the newest records up to limit, newest first.
func (r *executionRecordRepository) FindRecent(ctx context.Context, limit int) ([]entity.ExecutionRecord, error) {
	var records []entity.ExecutionRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Aggregate computes the summary counters over the whole table in one
// query.
func (r *executionRecordRepository) Aggregate(ctx context.Context) (*RecordAggregate, error) {
	var agg RecordAggregate
	err := r.db.WithContext(ctx).
		Model(&entity.ExecutionRecord{}).
		Select(
			"COUNT(*) AS total, " +
				"COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0) AS success_count, " +
				"COUNT(execution_time) AS timed_count, " +
				"COALESCE(SUM(execution_time), 0) AS total_time",
		).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// DeleteOlderThan removes records created before cutoff and reports how
// many were swept.
func (r *executionRecordRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.ExecutionRecord{})
	return result.RowsAffected, result.Error
}
