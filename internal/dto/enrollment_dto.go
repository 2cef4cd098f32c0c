package dto

import (
	"time"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// EnrollmentCreateRequest describes the payload for enrolling a user.
type EnrollmentCreateRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=teacher assistant student"`
}

// EnrollmentUpdateRequest updates the mutable part of an enrollment. The role
// is immutable here; role changes are a separate privileged operation.
type EnrollmentUpdateRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

// EnrollmentResponse is the serialized representation returned to API clients.
type EnrollmentResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		UserID:    model.UserID,
		Role:      string(model.Role),
		Favorite:  model.Favorite,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
