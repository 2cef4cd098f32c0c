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

// ErrModuleNotFound indicates the requested module does not exist.
var ErrModuleNotFound = errors.New("module not found")

// ModuleService exposes course module use cases.
type ModuleService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.ModuleResponse, error)
	Create(ctx context.Context, courseID, actorID uint, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error)
	Update(ctx context.Context, id, actorID uint, payload dto.ModuleUpdateRequest) (dto.ModuleResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
}

type moduleService struct {
	repo      repository.ModuleRepository
	courses   repository.CourseRepository
	policy    AuthorizationPolicy
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewModuleService builds a new module service.
func NewModuleService(repo repository.ModuleRepository, courses repository.CourseRepository, policy AuthorizationPolicy, validate *validator.Validate, logger zerolog.Logger) ModuleService {
	return &moduleService{
		repo:      repo,
		courses:   courses,
		policy:    policy,
		validator: validate,
		logger:    logger.With().Str("component", "module_service").Logger(),
	}
}

func (s *moduleService) ListByCourse(ctx context.Context, courseID uint) ([]dto.ModuleResponse, error) {
	modules, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewModuleResponseSlice(modules), nil
}

func (s *moduleService) Create(ctx context.Context, courseID, actorID uint, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	course, err := s.resolveCourse(ctx, courseID)
	if err != nil {
		return dto.ModuleResponse{}, err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityCreateModule); err != nil {
		return dto.ModuleResponse{}, err
	}

	module := models.Module{
		CourseID: course.ID,
		Title:    payload.Title,
		Position: payload.Position,
	}

	if err := s.repo.Create(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	s.logger.Info().Uint("module_id", module.ID).Uint("course_id", course.ID).Msg("module created")

	return dto.NewModuleResponse(module), nil
}

func (s *moduleService) Update(ctx context.Context, id, actorID uint, payload dto.ModuleUpdateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	module, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleResponse{}, ErrModuleNotFound
		}
		return dto.ModuleResponse{}, err
	}

	course, err := s.resolveCourse(ctx, module.CourseID)
	if err != nil {
		return dto.ModuleResponse{}, err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityUpdateModule); err != nil {
		return dto.ModuleResponse{}, err
	}

	if payload.Title != nil {
		module.Title = *payload.Title
	}
	if payload.Position != nil {
		module.Position = *payload.Position
	}

	if err := s.repo.Update(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	s.logger.Info().Uint("module_id", module.ID).Msg("module updated")

	return dto.NewModuleResponse(module), nil
}

func (s *moduleService) Delete(ctx context.Context, id, actorID uint) error {
	module, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}

	course, err := s.resolveCourse(ctx, module.CourseID)
	if err != nil {
		return err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityDeleteModule); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}

	s.logger.Info().Uint("module_id", id).Msg("module deleted")
	return nil
}

func (s *moduleService) resolveCourse(ctx context.Context, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}
