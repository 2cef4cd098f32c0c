package dto

import (
	"time"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// ActivityListRequest filters the audit trail listing.
type ActivityListRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
	CourseID uint   `query:"course_id"`
	UserID   uint   `query:"user_id"`
	Activity string `query:"activity"`
}

// ActivityResponse is the serialized audit entry returned to API clients.
type ActivityResponse struct {
	ID        uint                   `json:"id"`
	CourseID  uint                   `json:"course_id"`
	UserID    uint                   `json:"user_id"`
	Activity  string                 `json:"activity"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(model models.ActivityLog) ActivityResponse {
	metadata := map[string]interface{}{}
	for key, value := range model.Metadata {
		metadata[key] = value
	}

	return ActivityResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		UserID:    model.UserID,
		Activity:  string(model.Activity),
		Metadata:  metadata,
		CreatedAt: model.CreatedAt,
	}
}

// ActivityListResponse wraps a page of audit entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
