package models

import "time"

// Notification topics form a closed set. Requesting any other topic is a
// programming error, not a runtime condition.
const (
	TopicTaskAssignment   = "task-assignment"
	TopicMessageReceived  = "message-received"
	TopicDeadlineReminder = "deadline-reminder"
)

// KnownTopic reports whether the topic belongs to the recognised set.
func KnownTopic(topic string) bool {
	switch topic {
	case TopicTaskAssignment, TopicMessageReceived, TopicDeadlineReminder:
		return true
	}
	return false
}

// Notification represents a message targeted at a specific user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Topic     string    `gorm:"size:64;not null" json:"topic"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
