package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kelas-go-api/internal/models"
	"github.com/noah-isme/kelas-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryCourseRepoStub struct {
	courses map[uint]models.Course
}

func (m *memoryCourseRepoStub) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCourseRepoStub) List(ctx context.Context, filter repository.CourseFilter) ([]models.Course, int64, error) {
	var all []models.Course
	for _, course := range m.courses {
		all = append(all, course)
	}
	return all, int64(len(all)), nil
}

func (m *memoryCourseRepoStub) FindOpen(ctx context.Context, asOf time.Time) ([]models.Course, error) {
	var open []models.Course
	for _, course := range m.courses {
		if course.IsOpen(asOf) {
			open = append(open, course)
		}
	}
	return open, nil
}

func (m *memoryCourseRepoStub) Create(ctx context.Context, course *models.Course) error {
	course.ID = uint(len(m.courses) + 1)
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepoStub) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepoStub) Delete(ctx context.Context, id uint) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

type memoryEnrollmentRepoStub struct {
	enrollments []models.Enrollment
}

func (m *memoryEnrollmentRepoStub) ListByCourse(ctx context.Context, courseID uint, role models.Role) ([]models.Enrollment, error) {
	var filtered []models.Enrollment
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID != courseID {
			continue
		}
		if role != "" && enrollment.Role != role {
			continue
		}
		filtered = append(filtered, enrollment)
	}
	return filtered, nil
}

func (m *memoryEnrollmentRepoStub) FindByCourseUser(ctx context.Context, courseID, userID uint) (models.Enrollment, error) {
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID == courseID && enrollment.UserID == userID {
			return enrollment, nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (m *memoryEnrollmentRepoStub) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = uint(len(m.enrollments) + 1)
	m.enrollments = append(m.enrollments, *enrollment)
	return nil
}

func (m *memoryEnrollmentRepoStub) Update(ctx context.Context, enrollment *models.Enrollment) error {
	for i := range m.enrollments {
		if m.enrollments[i].ID == enrollment.ID {
			m.enrollments[i] = *enrollment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryEnrollmentRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range m.enrollments {
		if m.enrollments[i].ID == id {
			m.enrollments = append(m.enrollments[:i], m.enrollments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type recordingRecorderStub struct {
	mu      sync.Mutex
	entries []ActivityEntry
	err     error
}

func (r *recordingRecorderStub) Record(ctx context.Context, entry ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

type recordingChannelStub struct {
	mu      sync.Mutex
	sent    []sentNotification
	failAll error
}

type sentNotification struct {
	UserID  uint
	Title   string
	Message string
	Topic   string
}

func (c *recordingChannelStub) Send(ctx context.Context, userID uint, title, message, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentNotification{UserID: userID, Title: title, Message: message, Topic: topic})
	return c.failAll
}
