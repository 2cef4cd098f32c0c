package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
)

var (
	// ErrAssessmentNotFound indicates the requested assessment does not exist.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrNotEnrolled indicates the user has no student enrollment in the course.
	ErrNotEnrolled = errors.New("user is not enrolled as a student in this course")
	// ErrDeadlinePassed indicates the submission arrived after deadline plus tolerance.
	ErrDeadlinePassed = errors.New("assessment deadline has passed")
	// ErrAlreadySubmitted indicates the student already has a submission entry.
	ErrAlreadySubmitted = errors.New("assessment already submitted")
	// ErrSubmissionNotFound indicates no submission exists for the student.
	ErrSubmissionNotFound = errors.New("submission not found")
)

// AssessmentService exposes assessment domain use cases. Every mutation is
// gated by the AuthorizationPolicy before it reaches storage.
type AssessmentService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.AssessmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssessmentResponse, error)
	Create(ctx context.Context, courseID, actorID uint, payload dto.AssessmentCreateRequest) (dto.AssessmentResponse, error)
	Update(ctx context.Context, id, actorID uint, payload dto.AssessmentUpdateRequest) (dto.AssessmentResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
	Submit(ctx context.Context, id, studentID uint, payload dto.SubmissionCreateRequest) (dto.AssessmentResponse, error)
	Grade(ctx context.Context, id, actorID, studentID uint, payload dto.SubmissionGradeRequest) (dto.AssessmentResponse, error)
}

type assessmentService struct {
	repo        repository.AssessmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	policy      AuthorizationPolicy
	channel     NotificationChannel
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssessmentService builds a new assessment service.
func NewAssessmentService(
	repo repository.AssessmentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	policy AuthorizationPolicy,
	channel NotificationChannel,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssessmentService {
	return &assessmentService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
		policy:      policy,
		channel:     channel,
		validator:   validate,
		logger:      logger.With().Str("component", "assessment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assessmentService) ListByCourse(ctx context.Context, courseID uint) ([]dto.AssessmentResponse, error) {
	assessments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssessmentResponseSlice(assessments), nil
}

func (s *assessmentService) Get(ctx context.Context, id uint) (dto.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Create(ctx context.Context, courseID, actorID uint, payload dto.AssessmentCreateRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityCreateAssessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	deadline, err := time.Parse(time.RFC3339, payload.Deadline)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("invalid deadline: %w", err)
	}

	if !deadline.After(s.now()) {
		return dto.AssessmentResponse{}, fmt.Errorf("deadline must be in the future")
	}

	assessment := models.Assessment{
		CourseID:         course.ID,
		Title:            payload.Title,
		Description:      payload.Description,
		Deadline:         deadline,
		ToleranceMinutes: payload.ToleranceMinutes,
	}

	if err := s.repo.Create(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Uint("assessment_id", assessment.ID).Uint("course_id", course.ID).Msg("assessment created")

	s.notifyStudents(ctx, course.ID, assessment)

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Update(ctx context.Context, id, actorID uint, payload dto.AssessmentUpdateRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	course, err := s.getCourse(ctx, assessment.CourseID)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityUpdateAssessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	if payload.Title != nil {
		assessment.Title = *payload.Title
	}
	if payload.Description != nil {
		assessment.Description = *payload.Description
	}
	if payload.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *payload.Deadline)
		if err != nil {
			return dto.AssessmentResponse{}, fmt.Errorf("invalid deadline: %w", err)
		}
		assessment.Deadline = deadline
	}
	if payload.ToleranceMinutes != nil {
		assessment.ToleranceMinutes = *payload.ToleranceMinutes
	}

	if err := s.repo.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Uint("assessment_id", assessment.ID).Msg("assessment updated")

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Delete(ctx context.Context, id, actorID uint) error {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return err
	}

	course, err := s.getCourse(ctx, assessment.CourseID)
	if err != nil {
		return err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityDeleteAssessment); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assessment_id", id).Msg("assessment deleted")
	return nil
}

// Submit records the student's answers. Submission is accepted up to the
// deadline stretched by the assessment's tolerance window.
func (s *assessmentService) Submit(ctx context.Context, id, studentID uint, payload dto.SubmissionCreateRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	enrollment, err := s.enrollments.FindByCourseUser(ctx, assessment.CourseID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssessmentResponse{}, ErrNotEnrolled
		}
		return dto.AssessmentResponse{}, err
	}
	if enrollment.Role != models.RoleStudent {
		return dto.AssessmentResponse{}, ErrNotEnrolled
	}

	now := s.now()
	if now.After(assessment.LatestAcceptedAt()) {
		return dto.AssessmentResponse{}, ErrDeadlinePassed
	}

	if assessment.HasSubmission(studentID) {
		return dto.AssessmentResponse{}, ErrAlreadySubmitted
	}

	assessment.PutSubmission(studentID, models.SubmissionDoc{
		Answers:     payload.Answers,
		SubmittedAt: now,
	})

	if err := s.repo.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Uint("assessment_id", id).Uint("student_id", studentID).Msg("submission recorded")

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Grade(ctx context.Context, id, actorID, studentID uint, payload dto.SubmissionGradeRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	course, err := s.getCourse(ctx, assessment.CourseID)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if err := s.policy.Authorize(ctx, course, actorID, models.ActivityGradeSubmission); err != nil {
		return dto.AssessmentResponse{}, err
	}

	if !assessment.SetGrade(studentID, payload.Grade, payload.Feedback) {
		return dto.AssessmentResponse{}, ErrSubmissionNotFound
	}

	if err := s.repo.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Uint("assessment_id", id).Uint("student_id", studentID).Msg("submission graded")

	return dto.NewAssessmentResponse(assessment), nil
}

// notifyStudents fans out a task-assignment notification to every enrolled
// student. Delivery failures are soft: they are logged and never fail the
// assessment creation that triggered them.
func (s *assessmentService) notifyStudents(ctx context.Context, courseID uint, assessment models.Assessment) {
	students, err := s.enrollments.ListByCourse(ctx, courseID, models.RoleStudent)
	if err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to list students for task-assignment fan-out")
		return
	}

	body := fmt.Sprintf("New assessment %q is due %s.", assessment.Title, assessment.Deadline.Format(time.RFC1123))
	for _, student := range students {
		if err := s.channel.Send(ctx, student.UserID, "New assessment", body, models.TopicTaskAssignment); err != nil {
			s.logger.Warn().Err(err).
				Uint("user_id", student.UserID).
				Uint("assessment_id", assessment.ID).
				Msg("task-assignment notification failed")
		}
	}
}

func (s *assessmentService) getAssessment(ctx context.Context, id uint) (models.Assessment, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}
	return assessment, nil
}

func (s *assessmentService) getCourse(ctx context.Context, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}
