package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func TestCourseRepositoryFindOpenWindowBoundaries(t *testing.T) {
	db := setupTestDB(t, &models.Course{})
	repo := NewCourseRepository(db)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	running := models.Course{Title: "Running", TeacherID: 1, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)}
	startsNow := models.Course{Title: "Starts Now", TeacherID: 1, StartDate: now, EndDate: now.AddDate(0, 2, 0)}
	endsNow := models.Course{Title: "Ends Now", TeacherID: 1, StartDate: now.AddDate(0, -2, 0), EndDate: now}
	upcoming := models.Course{Title: "Upcoming", TeacherID: 2, StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 3, 0)}
	finished := models.Course{Title: "Finished", TeacherID: 2, StartDate: now.AddDate(0, -3, 0), EndDate: now.AddDate(0, -1, 0)}

	for _, course := range []*models.Course{&running, &startsNow, &endsNow, &upcoming, &finished} {
		require.NoError(t, db.Create(course).Error)
	}

	open, err := repo.FindOpen(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, open, 2)

	titles := []string{open[0].Title, open[1].Title}
	require.Contains(t, titles, "Running")
	require.Contains(t, titles, "Starts Now", "start date is inclusive")
	require.NotContains(t, titles, "Ends Now", "end date is exclusive")
}

func TestCourseRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t, &models.Course{})
	repo := NewCourseRepository(db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Algebra I", "Algebra II", "Biology"} {
		course := models.Course{Title: title, TeacherID: 1, StartDate: base.AddDate(0, i, 0), EndDate: base.AddDate(0, i+6, 0)}
		require.NoError(t, db.Create(&course).Error)
	}

	items, total, err := repo.List(context.Background(), CourseFilter{Search: "algebra"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	require.Equal(t, "Algebra I", items[0].Title)

	paged, total, err := repo.List(context.Background(), CourseFilter{Search: "algebra", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, paged, 1)
	require.Equal(t, "Algebra II", paged[0].Title)
}

func TestCourseRepositoryDeleteMissingReturnsNotFound(t *testing.T) {
	db := setupTestDB(t, &models.Course{})
	repo := NewCourseRepository(db)

	err := repo.Delete(context.Background(), 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
