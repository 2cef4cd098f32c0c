package dto

import (
	"time"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

// AssessmentCreateRequest describes the payload for creating an assessment.
type AssessmentCreateRequest struct {
	Title            string `json:"title" validate:"required,min=3"`
	Description      string `json:"description" validate:"omitempty"`
	Deadline         string `json:"deadline" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ToleranceMinutes int    `json:"tolerance_minutes" validate:"gte=0"`
}

// AssessmentUpdateRequest describes the payload for updating an assessment.
type AssessmentUpdateRequest struct {
	Title            *string `json:"title" validate:"omitempty,min=3"`
	Description      *string `json:"description" validate:"omitempty"`
	Deadline         *string `json:"deadline" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ToleranceMinutes *int    `json:"tolerance_minutes" validate:"omitempty,gte=0"`
}

// SubmissionCreateRequest carries a student's answers for an assessment.
type SubmissionCreateRequest struct {
	Answers []string `json:"answers" validate:"required,min=1"`
}

// SubmissionGradeRequest carries a grade and optional feedback.
type SubmissionGradeRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0,lte=100"`
	Feedback string  `json:"feedback" validate:"omitempty"`
}

// AssessmentResponse is the serialized representation returned to API clients.
type AssessmentResponse struct {
	ID               uint      `json:"id"`
	CourseID         uint      `json:"course_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Deadline         time.Time `json:"deadline"`
	ToleranceMinutes int       `json:"tolerance_minutes"`
	SubmissionCount  int       `json:"submission_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewAssessmentResponse converts a model into a DTO.
func NewAssessmentResponse(model models.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:               model.ID,
		CourseID:         model.CourseID,
		Title:            model.Title,
		Description:      model.Description,
		Deadline:         model.Deadline,
		ToleranceMinutes: model.ToleranceMinutes,
		SubmissionCount:  len(model.Submissions),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewAssessmentResponseSlice converts a slice of models into DTOs.
func NewAssessmentResponseSlice(assessments []models.Assessment) []AssessmentResponse {
	responses := make([]AssessmentResponse, 0, len(assessments))
	for _, assessment := range assessments {
		responses = append(responses, NewAssessmentResponse(assessment))
	}

	return responses
}
