package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// CourseService exposes course domain use cases.
type CourseService interface {
	List(ctx context.Context, search string, page, pageSize int) (dto.CourseListResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id, actorID uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
}

type courseService struct {
	repo      repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService builds a new course service.
func NewCourseService(repo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

func (s *courseService) List(ctx context.Context, search string, page, pageSize int) (dto.CourseListResponse, error) {
	courses, total, err := s.repo.List(ctx, repository.CourseFilter{Search: search, Page: page, PageSize: pageSize})
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.CourseListResponse{
		Items:      dto.NewCourseResponseSlice(courses, s.now()),
		Pagination: pagination,
	}, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course, s.now()), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	startDate, err := time.Parse(time.RFC3339, payload.StartDate)
	if err != nil {
		return dto.CourseResponse{}, fmt.Errorf("invalid start date: %w", err)
	}

	endDate, err := time.Parse(time.RFC3339, payload.EndDate)
	if err != nil {
		return dto.CourseResponse{}, fmt.Errorf("invalid end date: %w", err)
	}

	if !endDate.After(startDate) {
		return dto.CourseResponse{}, fmt.Errorf("end date must be after start date")
	}

	course := models.Course{
		Title:       payload.Title,
		Description: payload.Description,
		TeacherID:   payload.TeacherID,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course created")

	return dto.NewCourseResponse(course, s.now()), nil
}

// Update is restricted to the course teacher. Sub-resource mutations go
// through the AuthorizationPolicy instead; the course record itself belongs
// to its owner alone.
func (s *courseService) Update(ctx context.Context, id, actorID uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if actorID != course.TeacherID {
		return dto.CourseResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.StartDate != nil {
		startDate, err := time.Parse(time.RFC3339, *payload.StartDate)
		if err != nil {
			return dto.CourseResponse{}, fmt.Errorf("invalid start date: %w", err)
		}
		course.StartDate = startDate
	}
	if payload.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *payload.EndDate)
		if err != nil {
			return dto.CourseResponse{}, fmt.Errorf("invalid end date: %w", err)
		}
		course.EndDate = endDate
	}

	if !course.EndDate.After(course.StartDate) {
		return dto.CourseResponse{}, fmt.Errorf("end date must be after start date")
	}

	if err := s.repo.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(course, s.now()), nil
}

func (s *courseService) Delete(ctx context.Context, id, actorID uint) error {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if actorID != course.TeacherID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.logger.Info().Uint("course_id", id).Msg("course deleted")
	return nil
}
