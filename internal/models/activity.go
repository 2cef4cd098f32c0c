package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity enumerates the privileged mutations recorded in the audit trail.
type Activity string

const (
	ActivityCreateAssessment Activity = "assessment.created"
	ActivityUpdateAssessment Activity = "assessment.updated"
	ActivityDeleteAssessment Activity = "assessment.deleted"
	ActivityGradeSubmission  Activity = "submission.graded"
	ActivityCreateModule     Activity = "module.created"
	ActivityUpdateModule     Activity = "module.updated"
	ActivityDeleteModule     Activity = "module.deleted"
	ActivityCreateResource   Activity = "resource.created"
	ActivityUpdateResource   Activity = "resource.updated"
	ActivityDeleteResource   Activity = "resource.deleted"
	ActivityUpdateEnrollment Activity = "enrollment.updated"
)

// Valid reports whether the activity is one of the recognised mutation kinds.
func (a Activity) Valid() bool {
	switch a {
	case ActivityCreateAssessment, ActivityUpdateAssessment, ActivityDeleteAssessment,
		ActivityGradeSubmission,
		ActivityCreateModule, ActivityUpdateModule, ActivityDeleteModule,
		ActivityCreateResource, ActivityUpdateResource, ActivityDeleteResource,
		ActivityUpdateEnrollment:
		return true
	}
	return false
}

// ActivityLog is an append-only audit entry for a privileged course mutation
// performed by someone other than the course teacher.
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	CourseID  uint              `gorm:"not null;index" json:"course_id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"`
	Activity  Activity          `gorm:"size:64;not null" json:"activity"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
