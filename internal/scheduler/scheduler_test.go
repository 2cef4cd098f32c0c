package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

type stubCourseDirectory struct {
	courses []models.Course
	err     error
}

func (s *stubCourseDirectory) FindOpen(ctx context.Context, asOf time.Time) ([]models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	var open []models.Course
	for _, course := range s.courses {
		if course.IsOpen(asOf) {
			open = append(open, course)
		}
	}
	return open, nil
}

type stubEnrollmentDirectory struct {
	byCourse map[uint][]models.Enrollment
	errFor   map[uint]error
}

func (s *stubEnrollmentDirectory) ListByCourse(ctx context.Context, courseID uint, role models.Role) ([]models.Enrollment, error) {
	if err := s.errFor[courseID]; err != nil {
		return nil, err
	}
	var filtered []models.Enrollment
	for _, enrollment := range s.byCourse[courseID] {
		if role == "" || enrollment.Role == role {
			filtered = append(filtered, enrollment)
		}
	}
	return filtered, nil
}

type stubAssessmentDirectory struct {
	mu       sync.Mutex
	byCourse map[uint][]models.Assessment
	errFor   map[uint]error
	lastFrom time.Time
	lastTo   time.Time
}

func (s *stubAssessmentDirectory) FindUpcoming(ctx context.Context, courseID uint, deadlineFrom, deadlineTo time.Time) ([]models.Assessment, error) {
	s.mu.Lock()
	s.lastFrom = deadlineFrom
	s.lastTo = deadlineTo
	s.mu.Unlock()

	if err := s.errFor[courseID]; err != nil {
		return nil, err
	}

	var upcoming []models.Assessment
	for _, assessment := range s.byCourse[courseID] {
		if !assessment.Deadline.Before(deadlineFrom) && !assessment.Deadline.After(deadlineTo) {
			upcoming = append(upcoming, assessment)
		}
	}
	return upcoming, nil
}

type dispatch struct {
	UserID  uint
	Title   string
	Message string
	Topic   string
}

type recordingChannel struct {
	mu      sync.Mutex
	sent    []dispatch
	failFor map[uint]error
}

func (c *recordingChannel) Send(ctx context.Context, userID uint, title, message, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, dispatch{UserID: userID, Title: title, Message: message, Topic: topic})
	if err := c.failFor[userID]; err != nil {
		return err
	}
	return nil
}

func (c *recordingChannel) dispatches() []dispatch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]dispatch(nil), c.sent...)
}

func student(courseID, userID uint) models.Enrollment {
	return models.Enrollment{CourseID: courseID, UserID: userID, Role: models.RoleStudent}
}

func openCourse(id uint, now time.Time) models.Course {
	return models.Course{ID: id, TeacherID: 1, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)}
}

func newTestScheduler(courses *stubCourseDirectory, enrollments *stubEnrollmentDirectory, assessments *stubAssessmentDirectory, channel *recordingChannel) *DeadlineScheduler {
	return New(courses, enrollments, assessments, channel, Config{Workers: 2}, zerolog.Nop())
}

func TestTickSkipsSubmittedStudents(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assessment := models.Assessment{ID: 1, CourseID: 1, Title: "Midterm", Deadline: now.Add(30 * time.Minute)}
	assessment.PutSubmission(11, models.SubmissionDoc{Answers: []string{"done"}, SubmittedAt: now.Add(-time.Hour)})

	courses := &stubCourseDirectory{courses: []models.Course{openCourse(1, now)}}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{
		1: {student(1, 10), student(1, 11)},
	}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{1: {assessment}}}
	channel := &recordingChannel{}

	summary := newTestScheduler(courses, enrollments, assessments, channel).Tick(context.Background(), now)

	require.Equal(t, 1, summary.Attempted)
	require.Equal(t, 1, summary.Succeeded)
	require.Zero(t, summary.Failed)

	sent := channel.dispatches()
	require.Len(t, sent, 1)
	require.Equal(t, uint(10), sent[0].UserID)
	require.Equal(t, models.TopicDeadlineReminder, sent[0].Topic)
	require.Contains(t, sent[0].Message, "Midterm")
}

func TestTickWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	inside := models.Assessment{ID: 1, CourseID: 1, Title: "Inside", Deadline: now.Add(69 * time.Minute)}
	beyond := models.Assessment{ID: 2, CourseID: 1, Title: "Beyond", Deadline: now.Add(71 * time.Minute)}

	courses := &stubCourseDirectory{courses: []models.Course{openCourse(1, now)}}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{1: {student(1, 10)}}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{1: {inside, beyond}}}
	channel := &recordingChannel{}

	summary := newTestScheduler(courses, enrollments, assessments, channel).Tick(context.Background(), now)

	require.Equal(t, 1, summary.Attempted)
	sent := channel.dispatches()
	require.Len(t, sent, 1)
	require.Contains(t, sent[0].Message, "Inside")

	require.Equal(t, now, assessments.lastFrom)
	require.Equal(t, now.Add(70*time.Minute), assessments.lastTo, "look-ahead window is 70 minutes")
}

func TestTickIgnoresClosedCourses(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	finished := models.Course{ID: 2, TeacherID: 1, StartDate: now.AddDate(0, -3, 0), EndDate: now.AddDate(0, -1, 0)}

	courses := &stubCourseDirectory{courses: []models.Course{finished}}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{2: {student(2, 10)}}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{
		2: {{ID: 1, CourseID: 2, Title: "Orphan", Deadline: now.Add(10 * time.Minute)}},
	}}
	channel := &recordingChannel{}

	summary := newTestScheduler(courses, enrollments, assessments, channel).Tick(context.Background(), now)

	require.Zero(t, summary.Courses)
	require.Empty(t, channel.dispatches())
}

func TestTickIsolatesSendFailures(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	courses := &stubCourseDirectory{courses: []models.Course{openCourse(1, now), openCourse(2, now)}}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{
		1: {student(1, 10), student(1, 11)},
		2: {student(2, 20)},
	}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{
		1: {{ID: 1, CourseID: 1, Title: "Quiz", Deadline: now.Add(20 * time.Minute)}},
		2: {{ID: 2, CourseID: 2, Title: "Essay", Deadline: now.Add(40 * time.Minute)}},
	}}
	channel := &recordingChannel{failFor: map[uint]error{10: errors.New("smtp unavailable")}}

	summary := newTestScheduler(courses, enrollments, assessments, channel).Tick(context.Background(), now)

	require.Equal(t, 3, summary.Attempted, "failed pair must not suppress sibling attempts")
	require.Equal(t, 2, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)
	require.Len(t, channel.dispatches(), 3)
}

func TestTickIsolatesDirectoryFailurePerCourse(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	courses := &stubCourseDirectory{courses: []models.Course{openCourse(1, now), openCourse(2, now)}}
	enrollments := &stubEnrollmentDirectory{
		byCourse: map[uint][]models.Enrollment{2: {student(2, 20)}},
		errFor:   map[uint]error{1: errors.New("directory offline")},
	}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{
		2: {{ID: 2, CourseID: 2, Title: "Essay", Deadline: now.Add(40 * time.Minute)}},
	}}
	channel := &recordingChannel{}

	summary := newTestScheduler(courses, enrollments, assessments, channel).Tick(context.Background(), now)

	require.Equal(t, 2, summary.Courses)
	require.Equal(t, 1, summary.CoursesFailed)
	require.Equal(t, 1, summary.Succeeded)

	sent := channel.dispatches()
	require.Len(t, sent, 1)
	require.Equal(t, uint(20), sent[0].UserID)
}

func TestTickRepeatsReminderAcrossConsecutiveTicks(t *testing.T) {
	// No notified-state is kept between ticks, so a deadline that stays
	// inside the window across two ticks reminds the same student twice.
	firstTick := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	secondTick := firstTick.Add(time.Hour)
	deadline := firstTick.Add(65 * time.Minute)

	courses := &stubCourseDirectory{courses: []models.Course{openCourse(1, firstTick)}}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{1: {student(1, 10)}}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{
		1: {{ID: 1, CourseID: 1, Title: "Final", Deadline: deadline}},
	}}
	channel := &recordingChannel{}

	s := newTestScheduler(courses, enrollments, assessments, channel)
	s.Tick(context.Background(), firstTick)
	s.Tick(context.Background(), secondTick)

	sent := channel.dispatches()
	require.Len(t, sent, 2)
	require.Equal(t, sent[0].UserID, sent[1].UserID)
}

func TestTickStopsDispatchingWhenCancelled(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	courses := &stubCourseDirectory{courses: []models.Course{openCourse(1, now)}}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{1: {student(1, 10)}}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{
		1: {{ID: 1, CourseID: 1, Title: "Quiz", Deadline: now.Add(20 * time.Minute)}},
	}}
	channel := &recordingChannel{}

	summary := newTestScheduler(courses, enrollments, assessments, channel).Tick(ctx, now)

	require.Zero(t, summary.Attempted)
	require.Empty(t, channel.dispatches())
}

func TestTickManyCoursesBoundedWorkers(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	courses := &stubCourseDirectory{}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{}}
	for id := uint(1); id <= 20; id++ {
		courses.courses = append(courses.courses, openCourse(id, now))
		enrollments.byCourse[id] = []models.Enrollment{student(id, 100+id)}
		assessments.byCourse[id] = []models.Assessment{
			{ID: id, CourseID: id, Title: fmt.Sprintf("Task %d", id), Deadline: now.Add(30 * time.Minute)},
		}
	}
	channel := &recordingChannel{}

	summary := newTestScheduler(courses, enrollments, assessments, channel).Tick(context.Background(), now)

	require.Equal(t, 20, summary.Courses)
	require.Equal(t, 20, summary.Attempted)
	require.Equal(t, 20, summary.Succeeded)
	require.Len(t, channel.dispatches(), 20)
}
