package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentEnrolled   = "ENROLLED"
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"
)

// Enrollment tracks a user's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	UserID               uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID             uint       `json:"course_id" gorm:"index;uniqueIndex:idx_user_course;not null"`
	Course               Course     `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Status               string     `json:"status" gorm:"default:'ENROLLED'"`
	Progress             float64    `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	CompletedAssignments int        `json:"completed_assignments" gorm:"default:0"`
	TotalAssignments     int        `json:"total_assignments" gorm:"default:0"`
	CompletedAt          *time.Time `json:"completed_at"`
	IsDeleted            bool       `json:"-" gorm:"default:false"`
}
