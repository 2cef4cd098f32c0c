package dto

import (
	"time"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// ResourceCreateRequest describes the metadata for a resource upload.
type ResourceCreateRequest struct {
	Title string `form:"title" json:"title" validate:"required,min=3"`
}

// ResourceUpdateRequest describes the payload for updating a resource.
type ResourceUpdateRequest struct {
	Title *string `form:"title" json:"title" validate:"omitempty,min=3"`
}

// ResourceResponse is the serialized representation returned to API clients.
type ResourceResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	ModuleID  uint      `json:"module_id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewResourceResponse converts a model into a DTO.
func NewResourceResponse(model models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		ModuleID:  model.ModuleID,
		Title:     model.Title,
		FileURL:   model.FileURL,
		MimeType:  model.MimeType,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewResourceResponseSlice converts a slice of models into DTOs.
func NewResourceResponseSlice(resources []models.Resource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, NewResourceResponse(resource))
	}

	return responses
}
