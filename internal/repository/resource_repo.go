package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// ResourceRepository defines persistence operations for module resources.
type ResourceRepository interface {
	ListByModule(ctx context.Context, moduleID uint) ([]models.Resource, error)
	GetByID(ctx context.Context, id uint) (models.Resource, error)
	Create(ctx context.Context, resource *models.Resource) error
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, id uint) error
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository constructs a GORM-backed resource repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) ListByModule(ctx context.Context, moduleID uint) ([]models.Resource, error) {
	var resources []models.Resource
	if err := r.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("id ASC").
		Find(&resources).Error; err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint) (models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return models.Resource{}, err
	}

	return resource, nil
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *resourceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Resource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
