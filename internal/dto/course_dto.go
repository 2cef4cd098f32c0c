package dto

import (
	"time"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"omitempty"`
	TeacherID   uint   `json:"teacher_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CourseUpdateRequest describes the payload for updating a course.
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description" validate:"omitempty"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// CourseResponse is the serialized representation returned to API clients.
type CourseResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   uint      `json:"teacher_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Open        bool      `json:"open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course, reference time.Time) CourseResponse {
	return CourseResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		TeacherID:   model.TeacherID,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		Open:        model.IsOpen(reference),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course, reference time.Time) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course, reference))
	}

	return responses
}

// CourseListResponse wraps a page of courses.
type CourseListResponse struct {
	Items      []CourseResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}
