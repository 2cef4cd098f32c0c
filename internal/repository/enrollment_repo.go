package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	ListByCourse(ctx context.Context, courseID uint, role models.Role) ([]models.Enrollment, error)
	FindByCourseUser(ctx context.Context, courseID, userID uint) (models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id uint) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs a GORM-backed enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// ListByCourse returns the course's enrollments, optionally narrowed to a
// single role when role is non-empty.
func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID uint, role models.Role) ([]models.Enrollment, error) {
	query := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var enrollments []models.Enrollment
	if err := query.Order("user_id ASC").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) FindByCourseUser(ctx context.Context, courseID, userID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Enrollment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
