package models

import "time"

// Role identifies the capacity in which a user participates in a course.
type Role string

const (
	// RoleTeacher is the course owner.
	RoleTeacher Role = "teacher"
	// RoleAssistant may mutate course sub-resources on the teacher's behalf.
	RoleAssistant Role = "assistant"
	// RoleStudent consumes course content and submits assessments.
	RoleStudent Role = "student"
)

// Enrollment links a user to a course in a single role.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_enrollments_course_user" json:"course_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_enrollments_course_user" json:"user_id"`
	Role      Role      `gorm:"size:32;not null" json:"role"`
	Favorite  bool      `gorm:"not null;default:false" json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAssistant reports whether the enrollment grants assistant privileges.
func (e Enrollment) IsAssistant() bool {
	return e.Role == RoleAssistant
}
