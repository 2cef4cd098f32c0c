package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
)

var (
	// ErrEnrollmentNotFound indicates the requested enrollment does not exist.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrAlreadyEnrolled indicates the user already has an enrollment in the course.
	ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")
)

// EnrollmentService exposes enrollment use cases.
type EnrollmentService interface {
	ListByCourse(ctx context.Context, courseID uint, role string) ([]dto.EnrollmentResponse, error)
	Enroll(ctx context.Context, courseID, actorID uint, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	Update(ctx context.Context, courseID, userID, actorID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error)
	Withdraw(ctx context.Context, courseID, userID, actorID uint) error
}

type enrollmentService struct {
	repo      repository.EnrollmentRepository
	courses   repository.CourseRepository
	policy    AuthorizationPolicy
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEnrollmentService builds a new enrollment service.
func NewEnrollmentService(repo repository.EnrollmentRepository, courses repository.CourseRepository, policy AuthorizationPolicy, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		courses:   courses,
		policy:    policy,
		validator: validate,
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) ListByCourse(ctx context.Context, courseID uint, role string) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.ListByCourse(ctx, courseID, models.Role(role))
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

// Enroll registers a user into the course. Students may enroll themselves;
// enrolling anyone else, or in a non-student role, requires teacher or
// assistant privileges.
func (s *enrollmentService) Enroll(ctx context.Context, courseID, actorID uint, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	course, err := s.resolveCourse(ctx, courseID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}

	role := models.Role(payload.Role)
	selfEnroll := actorID == payload.UserID && role == models.RoleStudent
	if !selfEnroll {
		if err := s.policy.Authorize(ctx, course, actorID, models.ActivityUpdateEnrollment); err != nil {
			return dto.EnrollmentResponse{}, err
		}
	}

	if _, err := s.repo.FindByCourseUser(ctx, course.ID, payload.UserID); err == nil {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		CourseID: course.ID,
		UserID:   payload.UserID,
		Role:     role,
	}

	if err := s.repo.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("user_id", payload.UserID).Str("role", payload.Role).Msg("enrollment created")

	return dto.NewEnrollmentResponse(enrollment), nil
}

// Update touches the favorite flag only. The role is immutable here; role
// changes are a distinct privileged operation.
func (s *enrollmentService) Update(ctx context.Context, courseID, userID, actorID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	course, err := s.resolveCourse(ctx, courseID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment, err := s.repo.FindByCourseUser(ctx, course.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if actorID != userID {
		if err := s.policy.Authorize(ctx, course, actorID, models.ActivityUpdateEnrollment); err != nil {
			return dto.EnrollmentResponse{}, err
		}
	}

	if payload.Favorite != nil {
		enrollment.Favorite = *payload.Favorite
	}

	if err := s.repo.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Withdraw(ctx context.Context, courseID, userID, actorID uint) error {
	course, err := s.resolveCourse(ctx, courseID)
	if err != nil {
		return err
	}

	enrollment, err := s.repo.FindByCourseUser(ctx, course.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	if actorID != userID {
		if err := s.policy.Authorize(ctx, course, actorID, models.ActivityUpdateEnrollment); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, enrollment.ID); err != nil {
		return err
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("user_id", userID).Msg("enrollment removed")
	return nil
}

func (s *enrollmentService) resolveCourse(ctx context.Context, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}
