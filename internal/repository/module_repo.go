package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// ModuleRepository defines persistence operations for course modules.
type ModuleRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Module, error)
	GetByID(ctx context.Context, id uint) (models.Module, error)
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, module *models.Module) error
	Delete(ctx context.Context, id uint) error
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository constructs a GORM-backed module repository.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Module, error) {
	var modules []models.Module
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}

	return modules, nil
}

func (r *moduleRepository) GetByID(ctx context.Context, id uint) (models.Module, error) {
	var module models.Module
	if err := r.db.WithContext(ctx).First(&module, id).Error; err != nil {
		return models.Module{}, err
	}

	return module, nil
}

func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) Update(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Save(module).Error
}

func (r *moduleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Module{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
