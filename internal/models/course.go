package models

import "time"

// Course represents a taught course with a fixed running window.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TeacherID   uint      `gorm:"not null;index" json:"teacher_id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOpen reports whether the course is running at the given reference time.
// A course is open while StartDate <= reference < EndDate.
func (c Course) IsOpen(reference time.Time) bool {
	return !reference.Before(c.StartDate) && reference.Before(c.EndDate)
}
