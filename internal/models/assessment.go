package models

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Assessment represents a graded task with a hard deadline. Student
// submissions are stored as a document column keyed by user id, mirroring the
// document store that backs assessments.
type Assessment struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	CourseID         uint              `gorm:"not null;index" json:"course_id"`
	Title            string            `gorm:"size:255;not null" json:"title"`
	Description      string            `gorm:"type:text" json:"description"`
	Deadline         time.Time         `gorm:"not null;index" json:"deadline"`
	ToleranceMinutes int               `gorm:"not null;default:0" json:"tolerance_minutes"`
	Submissions      datatypes.JSONMap `gorm:"type:json" json:"submissions"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// SubmissionDoc is the per-student document stored inside an assessment.
type SubmissionDoc struct {
	Answers     []string  `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
	Grade       *float64  `json:"grade,omitempty"`
	Feedback    string    `json:"feedback,omitempty"`
}

func submissionKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// HasSubmission reports whether the student already submitted.
func (a Assessment) HasSubmission(userID uint) bool {
	if a.Submissions == nil {
		return false
	}
	_, ok := a.Submissions[submissionKey(userID)]
	return ok
}

// PutSubmission records the student's submission document.
func (a *Assessment) PutSubmission(userID uint, doc SubmissionDoc) {
	if a.Submissions == nil {
		a.Submissions = datatypes.JSONMap{}
	}
	entry := map[string]interface{}{
		"answers":      doc.Answers,
		"submitted_at": doc.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if doc.Grade != nil {
		entry["grade"] = *doc.Grade
	}
	if doc.Feedback != "" {
		entry["feedback"] = doc.Feedback
	}
	a.Submissions[submissionKey(userID)] = entry
}

// SetGrade attaches a grade and feedback to an existing submission entry,
// preserving the stored answers. It reports whether an entry existed.
func (a *Assessment) SetGrade(userID uint, grade float64, feedback string) bool {
	if a.Submissions == nil {
		return false
	}
	raw, ok := a.Submissions[submissionKey(userID)]
	if !ok {
		return false
	}
	entry, ok := raw.(map[string]interface{})
	if !ok {
		return false
	}
	entry["grade"] = grade
	if feedback != "" {
		entry["feedback"] = feedback
	}
	a.Submissions[submissionKey(userID)] = entry
	return true
}

// LatestAcceptedAt returns the last instant a submission is accepted, the
// deadline stretched by the tolerance window.
func (a Assessment) LatestAcceptedAt() time.Time {
	return a.Deadline.Add(time.Duration(a.ToleranceMinutes) * time.Minute)
}
