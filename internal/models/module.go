package models

import "time"

// Module is an ordered unit of content inside a course.
type Module struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resource is a downloadable asset attached to a module.
type Resource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	ModuleID  uint      `gorm:"not null;index" json:"module_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	FileURL   string    `gorm:"size:512" json:"file_url"`
	MimeType  string    `gorm:"size:128" json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
