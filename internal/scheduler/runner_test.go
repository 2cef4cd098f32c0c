package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kelas-go-api/internal/models"
)

type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {}

// fire blocks until the runner consumes the trigger, which in turn only
// happens after the previous tick has completed.
func (t *manualTicker) fire(now time.Time) {
	t.ch <- now
}

func TestRunnerDrivesTicksWithoutOverlap(t *testing.T) {
	firstTick := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	courses := &stubCourseDirectory{courses: []models.Course{openCourse(1, firstTick)}}
	enrollments := &stubEnrollmentDirectory{byCourse: map[uint][]models.Enrollment{1: {student(1, 10)}}}
	assessments := &stubAssessmentDirectory{byCourse: map[uint][]models.Assessment{
		1: {{ID: 1, CourseID: 1, Title: "Final", Deadline: firstTick.Add(65 * time.Minute)}},
	}}
	channel := &recordingChannel{}

	ticker := newManualTicker()
	runner := NewRunner(newTestScheduler(courses, enrollments, assessments, channel), ticker, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	ticker.fire(firstTick)
	ticker.fire(firstTick.Add(time.Hour))

	// A third trigger proves the previous ticks finished; its deadline has
	// left the window by then so it produces no dispatch.
	ticker.fire(firstTick.Add(2 * time.Hour))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}

	sent := channel.dispatches()
	require.Len(t, sent, 2, "reminder repeats while the deadline stays inside the window, then stops")
	require.Equal(t, uint(10), sent[0].UserID)
	require.Equal(t, models.TopicDeadlineReminder, sent[1].Topic)
}
