package dto

import (
	"time"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// ModuleCreateRequest describes the payload for creating a module.
type ModuleCreateRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Position int    `json:"position" validate:"gte=0"`
}

// ModuleUpdateRequest describes the payload for updating a module.
type ModuleUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=3"`
	Position *int    `json:"position" validate:"omitempty,gte=0"`
}

// ModuleResponse is the serialized representation returned to API clients.
type ModuleResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewModuleResponse converts a model into a DTO.
func NewModuleResponse(model models.Module) ModuleResponse {
	return ModuleResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Position:  model.Position,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewModuleResponseSlice converts a slice of models into DTOs.
func NewModuleResponseSlice(modules []models.Module) []ModuleResponse {
	responses := make([]ModuleResponse, 0, len(modules))
	for _, module := range modules {
		responses = append(responses, NewModuleResponse(module))
	}

	return responses
}
