package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/observability"
)

const (
	// DefaultLookAhead is the deadline look-ahead window. It deliberately
	// exceeds the hourly tick interval so a deadline cannot fall between two
	// consecutive ticks.
	DefaultLookAhead = 70 * time.Minute
	// DefaultWorkers bounds per-course parallelism within one tick.
	DefaultWorkers = 4
)

// CourseDirectory exposes the open-course catalogue.
type CourseDirectory interface {
	FindOpen(ctx context.Context, asOf time.Time) ([]models.Course, error)
}

// EnrollmentDirectory exposes course enrollments by role.
type EnrollmentDirectory interface {
	ListByCourse(ctx context.Context, courseID uint, role models.Role) ([]models.Enrollment, error)
}

// AssessmentDirectory exposes assessments by deadline window.
type AssessmentDirectory interface {
	FindUpcoming(ctx context.Context, courseID uint, deadlineFrom, deadlineTo time.Time) ([]models.Assessment, error)
}

// NotificationChannel delivers a single notification; it may fail transiently.
type NotificationChannel interface {
	Send(ctx context.Context, userID uint, title, message, topic string) error
}

// TickSummary aggregates the soft outcome of one scan. Failures are counted,
// never escalated: the tick attempts every pair it computed before returning.
type TickSummary struct {
	Courses       int
	CoursesFailed int
	Attempted     int
	Succeeded     int
	Failed        int
}

func (s *TickSummary) merge(other TickSummary) {
	s.Courses += other.Courses
	s.CoursesFailed += other.CoursesFailed
	s.Attempted += other.Attempted
	s.Succeeded += other.Succeeded
	s.Failed += other.Failed
}

// DeadlineScheduler scans open courses for assessments due inside the
// look-ahead window and reminds every enrolled student who has not submitted.
//
// No notified-state survives between ticks: a deadline that stays inside the
// window across two consecutive ticks produces a second reminder for the same
// student. That repetition is inherited behavior, kept on purpose.
type DeadlineScheduler struct {
	courses     CourseDirectory
	enrollments EnrollmentDirectory
	assessments AssessmentDirectory
	channel     NotificationChannel
	logger      zerolog.Logger
	tracer      trace.Tracer
	lookAhead   time.Duration
	workers     int
}

// Config tunes the scheduler; zero values fall back to defaults.
type Config struct {
	LookAhead time.Duration
	Workers   int
}

// New constructs a deadline scheduler.
func New(
	courses CourseDirectory,
	enrollments EnrollmentDirectory,
	assessments AssessmentDirectory,
	channel NotificationChannel,
	cfg Config,
	logger zerolog.Logger,
) *DeadlineScheduler {
	lookAhead := cfg.LookAhead
	if lookAhead <= 0 {
		lookAhead = DefaultLookAhead
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &DeadlineScheduler{
		courses:     courses,
		enrollments: enrollments,
		assessments: assessments,
		channel:     channel,
		logger:      logger.With().Str("component", "deadline_scheduler").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/kelas-go-api/internal/scheduler"),
		lookAhead:   lookAhead,
		workers:     workers,
	}
}

// Tick performs one scan as of now. Courses are processed on a bounded worker
// pool; Tick returns only after every dispatch attempt has finished. A
// cancelled context stops new dispatches but the summary still reflects every
// attempt made so far.
func (s *DeadlineScheduler) Tick(ctx context.Context, now time.Time) TickSummary {
	ctx, span := s.tracer.Start(ctx, "scheduler.tick", trace.WithAttributes(
		attribute.String("tick.as_of", now.UTC().Format(time.RFC3339)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.TickDuration().Observe(time.Since(start).Seconds())
	}()

	windowEnd := now.Add(s.lookAhead)

	open, err := s.courses.FindOpen(ctx, now)
	if err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Msg("failed to list open courses, skipping tick")
		return TickSummary{}
	}

	var (
		mu      sync.Mutex
		summary TickSummary
		wg      sync.WaitGroup
	)

	jobs := make(chan models.Course)
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for course := range jobs {
				result := s.scanCourse(ctx, course, now, windowEnd)
				mu.Lock()
				summary.merge(result)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, course := range open {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- course:
		}
	}
	close(jobs)
	wg.Wait()

	span.SetAttributes(
		attribute.Int("tick.courses", summary.Courses),
		attribute.Int("tick.attempted", summary.Attempted),
		attribute.Int("tick.failed", summary.Failed),
	)

	s.logger.Info().
		Int("courses", summary.Courses).
		Int("courses_failed", summary.CoursesFailed).
		Int("attempted", summary.Attempted).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("deadline tick completed")

	return summary
}

// scanCourse computes the (student, assessment) cross product for one course
// and dispatches a reminder for every pair without a submission. Directory
// failures mark the course failed without touching any other course; send
// failures are counted and the remaining pairs still get their attempt.
func (s *DeadlineScheduler) scanCourse(ctx context.Context, course models.Course, now, windowEnd time.Time) TickSummary {
	result := TickSummary{Courses: 1}

	students, err := s.enrollments.ListByCourse(ctx, course.ID, models.RoleStudent)
	if err != nil {
		s.logger.Warn().Err(err).Uint("course_id", course.ID).Msg("failed to list students, skipping course")
		result.CoursesFailed = 1
		return result
	}

	assessments, err := s.assessments.FindUpcoming(ctx, course.ID, now, windowEnd)
	if err != nil {
		s.logger.Warn().Err(err).Uint("course_id", course.ID).Msg("failed to list upcoming assessments, skipping course")
		result.CoursesFailed = 1
		return result
	}

	for _, assessment := range assessments {
		body := fmt.Sprintf("Assessment %q is due at %s. Submit your answers before the deadline.",
			assessment.Title, assessment.Deadline.Format(time.RFC1123))

		for _, student := range students {
			if assessment.HasSubmission(student.UserID) {
				continue
			}

			select {
			case <-ctx.Done():
				return result
			default:
			}

			result.Attempted++
			observability.RemindersAttempted().Inc()

			if err := s.channel.Send(ctx, student.UserID, "Upcoming deadline", body, models.TopicDeadlineReminder); err != nil {
				result.Failed++
				observability.RemindersFailed().Inc()
				s.logger.Warn().Err(err).
					Uint("course_id", course.ID).
					Uint("assessment_id", assessment.ID).
					Uint("user_id", student.UserID).
					Msg("deadline reminder dispatch failed")
				continue
			}
			result.Succeeded++
		}
	}

	return result
}
