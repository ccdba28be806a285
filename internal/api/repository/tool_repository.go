package repository

import (
	"context"

	"toolwatch/internal/entity"

	"gorm.io/gorm"
)

// ToolRepository defines the interface for tool registry data operations.
type ToolRepository interface {
	Create(ctx context.Context, tool *entity.Tool) error
	FindByName(ctx context.Context, name string) (*entity.Tool, error)
	FindAll(ctx context.Context) ([]entity.Tool, error)
	Update(ctx context.Context, tool *entity.Tool) error
	Delete(ctx context.Context, name string) error
}

// NewToolRepository creates a new GORM-based tool repository.
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

type toolRepository struct {
	db *gorm.DB
}

// Create registers a new tool.
func (r *toolRepository) Create(ctx context.Context, tool *entity.Tool) error {
	return r.db.WithContext(ctx).Create(tool).Error
}

// FindByName retrieves a tool by its unique name.
func (r *toolRepository) FindByName(ctx context.Context, name string) (*entity.Tool, error) {
	var tool entity.Tool
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tool).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}

// FindAll retrieves every registered tool.
func (r *toolRepository) FindAll(ctx context.Context) ([]entity.Tool, error) {
	var tools []entity.Tool
	if err := r.db.WithContext(ctx).Order("name").Find(&tools).Error; err != nil {
		return nil, err
	}
	return tools, nil
}

// Update saves changes to an existing tool.
func (r *toolRepository) Update(ctx context.Context, tool *entity.Tool) error {
	return r.db.WithContext(ctx).Save(tool).Error
}

// Delete soft-deletes a tool by name.
func (r *toolRepository) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&entity.Tool{}).Error
}
