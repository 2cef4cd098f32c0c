package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/dto"
	"github.com/noah-isme/kelas-go-api/internal/models"
)

type memoryAssessmentRepoStub struct {
	assessments map[uint]models.Assessment
	nextID      uint
}

func newMemoryAssessmentRepo() *memoryAssessmentRepoStub {
	return &memoryAssessmentRepoStub{assessments: map[uint]models.Assessment{}, nextID: 1}
}

func (m *memoryAssessmentRepoStub) ListByCourse(ctx context.Context, courseID uint) ([]models.Assessment, error) {
	var list []models.Assessment
	for _, assessment := range m.assessments {
		if assessment.CourseID == courseID {
			list = append(list, assessment)
		}
	}
	return list, nil
}

func (m *memoryAssessmentRepoStub) GetByID(ctx context.Context, id uint) (models.Assessment, error) {
	assessment, ok := m.assessments[id]
	if !ok {
		return models.Assessment{}, gorm.ErrRecordNotFound
	}
	return assessment, nil
}

func (m *memoryAssessmentRepoStub) FindUpcoming(ctx context.Context, courseID uint, from, to time.Time) ([]models.Assessment, error) {
	var list []models.Assessment
	for _, assessment := range m.assessments {
		if assessment.CourseID == courseID && !assessment.Deadline.Before(from) && !assessment.Deadline.After(to) {
			list = append(list, assessment)
		}
	}
	return list, nil
}

func (m *memoryAssessmentRepoStub) Create(ctx context.Context, assessment *models.Assessment) error {
	assessment.ID = m.nextID
	m.nextID++
	m.assessments[assessment.ID] = *assessment
	return nil
}

func (m *memoryAssessmentRepoStub) Update(ctx context.Context, assessment *models.Assessment) error {
	if _, ok := m.assessments[assessment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.assessments[assessment.ID] = *assessment
	return nil
}

func (m *memoryAssessmentRepoStub) Delete(ctx context.Context, id uint) error {
	if _, ok := m.assessments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assessments, id)
	return nil
}

type assessmentFixture struct {
	svc      AssessmentService
	repo     *memoryAssessmentRepoStub
	recorder *recordingRecorderStub
	channel  *recordingChannelStub
}

func newAssessmentFixture(t *testing.T, enrollments []models.Enrollment) assessmentFixture {
	t.Helper()

	courses := &memoryCourseRepoStub{courses: map[uint]models.Course{
		1: {ID: 1, TeacherID: 100, StartDate: time.Now().AddDate(0, -1, 0), EndDate: time.Now().AddDate(0, 1, 0)},
	}}
	enrollmentRepo := &memoryEnrollmentRepoStub{enrollments: enrollments}
	recorder := &recordingRecorderStub{}
	policy := NewAuthorizationPolicy(enrollmentRepo, recorder, testLogger())
	channel := &recordingChannelStub{}
	repo := newMemoryAssessmentRepo()

	svc := NewAssessmentService(repo, courses, enrollmentRepo, policy, channel,
		validator.New(validator.WithRequiredStructEnabled()), testLogger())

	return assessmentFixture{svc: svc, repo: repo, recorder: recorder, channel: channel}
}

func deadlineIn(d time.Duration) string {
	return time.Now().Add(d).UTC().Format(time.RFC3339)
}

func TestAssessmentCreateByAssistantAuditsAndNotifies(t *testing.T) {
	f := newAssessmentFixture(t, []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 200, Role: models.RoleAssistant},
		{ID: 2, CourseID: 1, UserID: 300, Role: models.RoleStudent},
		{ID: 3, CourseID: 1, UserID: 301, Role: models.RoleStudent},
	})

	created, err := f.svc.Create(context.Background(), 1, 200, dto.AssessmentCreateRequest{
		Title:    "Midterm",
		Deadline: deadlineIn(48 * time.Hour),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	require.Len(t, f.recorder.entries, 1)
	require.Equal(t, models.ActivityCreateAssessment, f.recorder.entries[0].Activity)

	require.Len(t, f.channel.sent, 2, "every enrolled student gets a task-assignment notification")
	require.Equal(t, models.TopicTaskAssignment, f.channel.sent[0].Topic)
	require.Contains(t, f.channel.sent[0].Message, "Midterm")
}

func TestAssessmentCreateByTeacherSkipsAudit(t *testing.T) {
	f := newAssessmentFixture(t, nil)

	_, err := f.svc.Create(context.Background(), 1, 100, dto.AssessmentCreateRequest{
		Title:    "Quiz",
		Deadline: deadlineIn(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Empty(t, f.recorder.entries)
}

func TestAssessmentCreateByStrangerIsForbidden(t *testing.T) {
	f := newAssessmentFixture(t, nil)

	_, err := f.svc.Create(context.Background(), 1, 999, dto.AssessmentCreateRequest{
		Title:    "Quiz",
		Deadline: deadlineIn(24 * time.Hour),
	})
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, f.repo.assessments, "denied mutations must never reach storage")
	require.Empty(t, f.channel.sent)
}

func TestAssessmentCreateUnknownCourseIsNotFound(t *testing.T) {
	f := newAssessmentFixture(t, nil)

	_, err := f.svc.Create(context.Background(), 42, 100, dto.AssessmentCreateRequest{
		Title:    "Quiz",
		Deadline: deadlineIn(24 * time.Hour),
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestAssessmentCreateNotificationFailureIsSoft(t *testing.T) {
	f := newAssessmentFixture(t, []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 300, Role: models.RoleStudent},
	})
	f.channel.failAll = errors.New("broker down")

	created, err := f.svc.Create(context.Background(), 1, 100, dto.AssessmentCreateRequest{
		Title:    "Quiz",
		Deadline: deadlineIn(24 * time.Hour),
	})
	require.NoError(t, err, "fan-out failure must not fail the creation")
	require.NotZero(t, created.ID)
}

func TestAssessmentSubmitLifecycle(t *testing.T) {
	f := newAssessmentFixture(t, []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 300, Role: models.RoleStudent},
	})

	created, err := f.svc.Create(context.Background(), 1, 100, dto.AssessmentCreateRequest{
		Title:            "Essay",
		Deadline:         deadlineIn(time.Hour),
		ToleranceMinutes: 15,
	})
	require.NoError(t, err)

	resp, err := f.svc.Submit(context.Background(), created.ID, 300, dto.SubmissionCreateRequest{Answers: []string{"42"}})
	require.NoError(t, err)
	require.Equal(t, 1, resp.SubmissionCount)

	_, err = f.svc.Submit(context.Background(), created.ID, 300, dto.SubmissionCreateRequest{Answers: []string{"43"}})
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	_, err = f.svc.Submit(context.Background(), created.ID, 999, dto.SubmissionCreateRequest{Answers: []string{"44"}})
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestAssessmentSubmitAfterToleranceIsRejected(t *testing.T) {
	f := newAssessmentFixture(t, []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 300, Role: models.RoleStudent},
	})

	repo := f.repo
	past := models.Assessment{
		CourseID:         1,
		Title:            "Late",
		Deadline:         time.Now().Add(-30 * time.Minute),
		ToleranceMinutes: 10,
	}
	require.NoError(t, repo.Create(context.Background(), &past))

	_, err := f.svc.Submit(context.Background(), past.ID, 300, dto.SubmissionCreateRequest{Answers: []string{"late"}})
	require.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestAssessmentSubmitWithinToleranceIsAccepted(t *testing.T) {
	f := newAssessmentFixture(t, []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 300, Role: models.RoleStudent},
	})

	graceful := models.Assessment{
		CourseID:         1,
		Title:            "Grace",
		Deadline:         time.Now().Add(-5 * time.Minute),
		ToleranceMinutes: 10,
	}
	require.NoError(t, f.repo.Create(context.Background(), &graceful))

	_, err := f.svc.Submit(context.Background(), graceful.ID, 300, dto.SubmissionCreateRequest{Answers: []string{"just in time"}})
	require.NoError(t, err)
}

func TestAssessmentGrade(t *testing.T) {
	f := newAssessmentFixture(t, []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 200, Role: models.RoleAssistant},
		{ID: 2, CourseID: 1, UserID: 300, Role: models.RoleStudent},
	})

	created, err := f.svc.Create(context.Background(), 1, 100, dto.AssessmentCreateRequest{
		Title:    "Final",
		Deadline: deadlineIn(time.Hour),
	})
	require.NoError(t, err)

	_, err = f.svc.Grade(context.Background(), created.ID, 200, 300, dto.SubmissionGradeRequest{Grade: 90})
	require.ErrorIs(t, err, ErrSubmissionNotFound)

	_, err = f.svc.Submit(context.Background(), created.ID, 300, dto.SubmissionCreateRequest{Answers: []string{"answer"}})
	require.NoError(t, err)

	_, err = f.svc.Grade(context.Background(), created.ID, 200, 300, dto.SubmissionGradeRequest{Grade: 90, Feedback: "solid"})
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, stored.HasSubmission(300))

	// grading by an assistant is a privileged activity and lands in the audit trail
	var graded bool
	for _, entry := range f.recorder.entries {
		if entry.Activity == models.ActivityGradeSubmission {
			graded = true
		}
	}
	require.True(t, graded)
}
