package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
)

var (
	// ErrResourceNotFound indicates the requested resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrResourceTooLarge indicates the uploaded file exceeded the limit.
	ErrResourceTooLarge = errors.New("resource file exceeds maximum allowed size")
)

// FileStorage abstracts uploading binary data and returning a URL.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ResourceService exposes module resource use cases, including file uploads.
type ResourceService interface {
	ListByModule(ctx context.Context, moduleID uint) ([]dto.ResourceResponse, error)
	Create(ctx context.Context, moduleID, actorID uint, payload dto.ResourceCreateRequest, file *multipart.FileHeader) (dto.ResourceResponse, error)
	Update(ctx context.Context, id, actorID uint, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
}

type resourceService struct {
	repo      repository.ResourceRepository
	modules   repository.ModuleRepository
	courses   repository.CourseRepository
	policy    AuthorizationPolicy
	storage   FileStorage
	validator *validator.Validate
	logger    zerolog.Logger
	maxSize   int64
}

// NewResourceService builds a new resource service.
func NewResourceService(
	repo repository.ResourceRepository,
	modules repository.ModuleRepository,
	courses repository.CourseRepository,
	policy AuthorizationPolicy,
	storage FileStorage,
	maxSizeMB int,
	validate *validator.Validate,
	logger zerolog.Logger,
) ResourceService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &resourceService{
		repo:      repo,
		modules:   modules,
		courses:   courses,
		policy:    policy,
		storage:   storage,
		validator: validate,
		logger:    logger.With().Str("component", "resource_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
	}
}

func (s *resourceService) ListByModule(ctx context.Context, moduleID uint) ([]dto.ResourceResponse, error) {
	resources, err := s.repo.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	return dto.NewResourceResponseSlice(resources), nil
}

func (s *resourceService) Create(ctx context.Context, moduleID, actorID uint, payload dto.ResourceCreateRequest, file *multipart.FileHeader) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}

	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrModuleNotFound
		}
		return dto.ResourceResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, module.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrCourseNotFound
		}
		return dto.ResourceResponse{}, err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityCreateResource); err != nil {
		return dto.ResourceResponse{}, err
	}

	resource := models.Resource{
		CourseID: course.ID,
		ModuleID: module.ID,
		Title:    payload.Title,
	}

	if file != nil {
		url, mime, err := s.uploadFile(ctx, file)
		if err != nil {
			return dto.ResourceResponse{}, err
		}
		resource.FileURL = url
		resource.MimeType = mime
	}

	if err := s.repo.Create(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.logger.Info().Uint("resource_id", resource.ID).Uint("module_id", module.ID).Msg("resource created")

	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) Update(ctx context.Context, id, actorID uint, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}

	resource, err := s.getResource(ctx, id)
	if err != nil {
		return dto.ResourceResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, resource.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrCourseNotFound
		}
		return dto.ResourceResponse{}, err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityUpdateResource); err != nil {
		return dto.ResourceResponse{}, err
	}

	if payload.Title != nil {
		resource.Title = *payload.Title
	}

	if err := s.repo.Update(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.logger.Info().Uint("resource_id", resource.ID).Msg("resource updated")

	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) Delete(ctx context.Context, id, actorID uint) error {
	resource, err := s.getResource(ctx, id)
	if err != nil {
		return err
	}

	course, err := s.courses.GetByID(ctx, resource.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityDeleteResource); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}

	s.logger.Info().Uint("resource_id", id).Msg("resource deleted")
	return nil
}

// uploadFile sniffs the real MIME type from content before handing the bytes
// to storage; the client-declared content type is never trusted.
func (s *resourceService) uploadFile(ctx context.Context, file *multipart.FileHeader) (string, string, error) {
	if s.storage == nil {
		return "", "", errors.New("file storage is not configured")
	}

	if file.Size > s.maxSize {
		return "", "", ErrResourceTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", "", ErrResourceTooLarge
	}

	mime := mimetype.Detect(data)

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return url, mime.String(), nil
}

func (s *resourceService) getResource(ctx context.Context, id uint) (models.Resource, error) {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Resource{}, ErrResourceNotFound
		}
		return models.Resource{}, err
	}
	return resource, nil
}
