package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

func testCourse() models.Course {
	return models.Course{
		ID:        1,
		TeacherID: 100,
		StartDate: time.Now().AddDate(0, -1, 0),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
}

func TestAuthorizeTeacherAllowsWithoutAudit(t *testing.T) {
	recorder := &recordingRecorderStub{}
	enrollments := &memoryEnrollmentRepoStub{}
	policy := NewAuthorizationPolicy(enrollments, recorder, testLogger())

	err := policy.Authorize(context.Background(), testCourse(), 100, models.ActivityCreateAssessment)
	require.NoError(t, err)
	require.Empty(t, recorder.entries, "teacher actions are never audited")
}

func TestAuthorizeAssistantAllowsWithSingleAudit(t *testing.T) {
	recorder := &recordingRecorderStub{}
	enrollments := &memoryEnrollmentRepoStub{enrollments: []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 200, Role: models.RoleAssistant},
	}}
	policy := NewAuthorizationPolicy(enrollments, recorder, testLogger())

	err := policy.Authorize(context.Background(), testCourse(), 200, models.ActivityUpdateModule)
	require.NoError(t, err)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, uint(1), recorder.entries[0].CourseID)
	require.Equal(t, uint(200), recorder.entries[0].UserID)
	require.Equal(t, models.ActivityUpdateModule, recorder.entries[0].Activity)
}

func TestAuthorizeStudentDeniesWithoutAudit(t *testing.T) {
	recorder := &recordingRecorderStub{}
	enrollments := &memoryEnrollmentRepoStub{enrollments: []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 300, Role: models.RoleStudent},
	}}
	policy := NewAuthorizationPolicy(enrollments, recorder, testLogger())

	err := policy.Authorize(context.Background(), testCourse(), 300, models.ActivityDeleteAssessment)
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, recorder.entries, "denials are not audited")
}

func TestAuthorizeStrangerDeniesWithoutAudit(t *testing.T) {
	recorder := &recordingRecorderStub{}
	enrollments := &memoryEnrollmentRepoStub{}
	policy := NewAuthorizationPolicy(enrollments, recorder, testLogger())

	err := policy.Authorize(context.Background(), testCourse(), 999, models.ActivityCreateResource)
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, recorder.entries)
}

func TestAuthorizeAuditFailureDoesNotBlockAllowedAction(t *testing.T) {
	recorder := &recordingRecorderStub{err: errors.New("audit store down")}
	enrollments := &memoryEnrollmentRepoStub{enrollments: []models.Enrollment{
		{ID: 1, CourseID: 1, UserID: 200, Role: models.RoleAssistant},
	}}
	policy := NewAuthorizationPolicy(enrollments, recorder, testLogger())

	err := policy.Authorize(context.Background(), testCourse(), 200, models.ActivityCreateModule)
	require.NoError(t, err, "audit write failure is a soft error")
}
