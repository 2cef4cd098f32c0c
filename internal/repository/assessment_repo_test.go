package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

func TestAssessmentRepositoryFindUpcomingWindow(t *testing.T) {
	db := setupTestDB(t, &models.Assessment{})
	repo := NewAssessmentRepository(db)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	windowEnd := now.Add(70 * time.Minute)

	inside := models.Assessment{CourseID: 1, Title: "Quiz", Deadline: now.Add(30 * time.Minute)}
	atEdge := models.Assessment{CourseID: 1, Title: "Edge", Deadline: windowEnd}
	beyond := models.Assessment{CourseID: 1, Title: "Later", Deadline: windowEnd.Add(time.Minute)}
	past := models.Assessment{CourseID: 1, Title: "Past", Deadline: now.Add(-time.Minute)}
	otherCourse := models.Assessment{CourseID: 2, Title: "Other", Deadline: now.Add(30 * time.Minute)}

	for _, assessment := range []*models.Assessment{&inside, &atEdge, &beyond, &past, &otherCourse} {
		require.NoError(t, db.Create(assessment).Error)
	}

	upcoming, err := repo.FindUpcoming(context.Background(), 1, now, windowEnd)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	require.Equal(t, "Quiz", upcoming[0].Title)
	require.Equal(t, "Edge", upcoming[1].Title, "window end is inclusive")
}

func TestAssessmentRepositorySubmissionsRoundTrip(t *testing.T) {
	db := setupTestDB(t, &models.Assessment{})
	repo := NewAssessmentRepository(db)

	assessment := models.Assessment{CourseID: 1, Title: "Essay", Deadline: time.Now().Add(time.Hour)}
	assessment.PutSubmission(7, models.SubmissionDoc{Answers: []string{"a", "b"}, SubmittedAt: time.Now()})
	require.NoError(t, repo.Create(context.Background(), &assessment))

	stored, err := repo.GetByID(context.Background(), assessment.ID)
	require.NoError(t, err)
	require.True(t, stored.HasSubmission(7))
	require.False(t, stored.HasSubmission(8))
}
