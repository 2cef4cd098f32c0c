package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
)

// ErrForbidden indicates the actor is neither the course teacher nor an
// assistant and must not perform the attempted mutation.
var ErrForbidden = errors.New("forbidden: actor is neither the course teacher nor an assistant")

// AuthorizationPolicy decides whether an actor may mutate a course's
// sub-resources. Callers resolve the course first; an absent course is a
// not-found condition at the call site, never an authorization failure.
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, course models.Course, actorID uint, activity models.Activity) error
}

type authorizationPolicy struct {
	enrollments repository.EnrollmentRepository
	recorder    ActivityRecorder
	logger      zerolog.Logger
}

// NewAuthorizationPolicy constructs the mutation guard.
func NewAuthorizationPolicy(enrollments repository.EnrollmentRepository, recorder ActivityRecorder, logger zerolog.Logger) AuthorizationPolicy {
	return &authorizationPolicy{
		enrollments: enrollments,
		recorder:    recorder,
		logger:      logger.With().Str("component", "authorization_policy").Logger(),
	}
}

// Authorize allows the course teacher unconditionally and assistants with an
// audit record; everyone else is denied. Only allowed assistant actions are
// audited: teacher actions are trusted owner actions and denials leave no
// trace in the log.
func (p *authorizationPolicy) Authorize(ctx context.Context, course models.Course, actorID uint, activity models.Activity) error {
	if actorID == course.TeacherID {
		return nil
	}

	enrollment, err := p.enrollments.FindByCourseUser(ctx, course.ID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}

	if !enrollment.IsAssistant() {
		return ErrForbidden
	}

	// The audit write is fire-and-forget relative to the mutation: a failed
	// write is surfaced as a soft error and never blocks the allowed action.
	if err := p.recorder.Record(ctx, ActivityEntry{
		CourseID: course.ID,
		UserID:   actorID,
		Activity: activity,
	}); err != nil {
		p.logger.Warn().Err(err).
			Uint("course_id", course.ID).
			Uint("actor_id", actorID).
			Str("activity", string(activity)).
			Msg("audit record write failed for authorized action")
	}

	return nil
}
