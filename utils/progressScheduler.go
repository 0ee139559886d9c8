package utils

import (
	"fmt"
	"log"
	"time"

	courseModels "planetpath/models/course"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeProgressScheduler starts a cron job that recalculates every
// enrollment's progress on the given schedule.
func InitializeProgressScheduler(db *gorm.DB, schedule string) (*cron.Cron, error) {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		log.Println("[PROGRESS-SCHEDULER] Recalculating enrollment progress...")
		updated, err := RecalculateAllProgress(db)
		if err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error recalculating progress: %v", err)
			return
		}
		log.Printf("[PROGRESS-SCHEDULER] Updated %d enrollments", updated)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Printf("[PROGRESS-SCHEDULER] Progress scheduler started with schedule %q", schedule)
	return c, nil
}

// RecalculateAllProgress refreshes every active enrollment and returns how many were visited
func RecalculateAllProgress(db *gorm.DB) (int, error) {
	var enrollments []courseModels.Enrollment
	if err := db.Where("is_deleted = ?", false).Find(&enrollments).Error; err != nil {
		return 0, err
	}

	for i := range enrollments {
		if err := updateProgress(db, &enrollments[i]); err != nil {
			return i, err
		}
	}
	return len(enrollments), nil
}

// UpdateEnrollmentProgress recalculates a single user's progress in a course.
// A missing enrollment is not an error.
func UpdateEnrollmentProgress(db *gorm.DB, userID, courseID uint) error {
	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return updateProgress(db, &enrollment)
}

func updateProgress(db *gorm.DB, enrollment *courseModels.Enrollment) error {
	var total int64
	if err := db.Model(&courseModels.Assignment{}).
		Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Count(&total).Error; err != nil {
		return err
	}

	var completed int64
	if err := db.Model(&courseModels.Submission{}).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id AND assignments.is_deleted = ?", false).
		Where("submissions.user_id = ? AND submissions.course_id = ? AND submissions.is_deleted = ?",
			enrollment.UserID, enrollment.CourseID, false).
		Distinct("submissions.assignment_id").
		Count(&completed).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"total_assignments":     int(total),
		"completed_assignments": int(completed),
		"progress":              progressPercent(completed, total),
		"status":                progressStatus(completed, total),
	}
	if total > 0 && completed >= total {
		if enrollment.CompletedAt == nil {
			updates["completed_at"] = time.Now()
		}
	} else {
		updates["completed_at"] = nil
	}

	return db.Model(enrollment).Updates(updates).Error
}

func progressPercent(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return float64(completed) * 100 / float64(total)
}

func progressStatus(completed, total int64) string {
	switch {
	case total > 0 && completed >= total:
		return courseModels.EnrollmentCompleted
	case completed > 0:
		return courseModels.EnrollmentInProgress
	}
	return courseModels.EnrollmentEnrolled
}
