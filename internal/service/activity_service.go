package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
)

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	CourseID uint
	UserID   uint
	Activity models.Activity
	Metadata map[string]interface{}
}

// ActivityRecorder defines behaviour for recording audit trail entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService exposes methods to query and persist the audit trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	if !entry.Activity.Valid() {
		return fmt.Errorf("unrecognised activity kind %q", entry.Activity)
	}
	if entry.CourseID == 0 || entry.UserID == 0 {
		return fmt.Errorf("course id and user id are required")
	}

	model := models.ActivityLog{
		CourseID: entry.CourseID,
		UserID:   entry.UserID,
		Activity: entry.Activity,
		Metadata: toJSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).
			Uint("course_id", entry.CourseID).
			Uint("user_id", entry.UserID).
			Str("activity", string(entry.Activity)).
			Msg("failed to persist activity log")
		return err
	}

	return nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter := repository.ActivityLogFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Activity: models.Activity(req.Activity),
	}
	if req.CourseID > 0 {
		filter.CourseID = &req.CourseID
	}
	if req.UserID > 0 {
		filter.UserID = &req.UserID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ActivityListResponse{Items: responses, Pagination: pagination}, nil
}

func toJSONMap(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	converted := datatypes.JSONMap{}
	for key, value := range metadata {
		converted[key] = value
	}
	return converted
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
