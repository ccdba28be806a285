package repository

import (
	"context"

	"toolwatch/internal/entity"

	"gorm.io/gorm"
)

// ToolRepository defines the interface for tool lookups on the runner side.
type ToolRepository interface {
	FindByName(ctx context.Context, name string) (*entity.Tool, error)
}

// NewToolRepository creates a new GORM-based tool repository.
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

type toolRepository struct {
	db *gorm.DB
}

// FindByName retrieves a tool by its unique name.
func (r *toolRepository) FindByName(ctx context.Context, name string) (*entity.Tool, error) {
	var tool entity.Tool
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tool).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}
