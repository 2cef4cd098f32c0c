package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// AssessmentRepository defines persistence operations for assessments.
type AssessmentRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Assessment, error)
	GetByID(ctx context.Context, id uint) (models.Assessment, error)
	FindUpcoming(ctx context.Context, courseID uint, deadlineFrom, deadlineTo time.Time) ([]models.Assessment, error)
	Create(ctx context.Context, assessment *models.Assessment) error
	Update(ctx context.Context, assessment *models.Assessment) error
	Delete(ctx context.Context, id uint) error
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository constructs a GORM-backed assessment repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Assessment, error) {
	var assessments []models.Assessment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("deadline ASC").
		Find(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uint) (models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return models.Assessment{}, err
	}

	return assessment, nil
}

// FindUpcoming returns the course's assessments whose deadline falls inside
// [deadlineFrom, deadlineTo].
func (r *assessmentRepository) FindUpcoming(ctx context.Context, courseID uint, deadlineFrom, deadlineTo time.Time) ([]models.Assessment, error) {
	var assessments []models.Assessment
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND deadline >= ? AND deadline <= ?", courseID, deadlineFrom, deadlineTo).
		Order("deadline ASC").
		Find(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Save(assessment).Error
}

func (r *assessmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Assessment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
