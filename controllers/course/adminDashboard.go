package controllers

import (
	"log"
	"time"

	"planetpath/database"
	"planetpath/middleware"
	"planetpath/models"
	courseModels "planetpath/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminDashboard returns platform-wide counters
func AdminDashboard(c *fiber.Ctx) error {
	db := database.Database.Db
	todayStart := now.BeginningOfDay()
	weekStart := now.BeginningOfWeek()

	// count records the first query failure
	var countErr error
	count := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil && countErr == nil {
			countErr = err
		}
		return n
	}

	stats := fiber.Map{
		"total_users":         count(&models.User{}, "is_deleted = ?", false),
		"total_courses":       count(&courseModels.Course{}, "is_deleted = ?", false),
		"published_courses":   count(&courseModels.Course{}, "is_deleted = ? AND is_published = ?", false, true),
		"total_enrollments":   count(&courseModels.Enrollment{}, "is_deleted = ?", false),
		"completed_courses":   count(&courseModels.Enrollment{}, "is_deleted = ? AND status = ?", false, courseModels.EnrollmentCompleted),
		"total_submissions":   count(&courseModels.Submission{}, "is_deleted = ?", false),
		"submissions_today":   count(&courseModels.Submission{}, "is_deleted = ? AND created_at >= ?", false, todayStart),
		"submissions_week":    count(&courseModels.Submission{}, "is_deleted = ? AND created_at >= ?", false, weekStart),
		"geotagged_submitted": count(&courseModels.Submission{}, "is_deleted = ? AND latitude IS NOT NULL", false),
		"generated_at":        time.Now(),
	}
	if countErr != nil {
		log.Printf("Error building admin dashboard: %v", countErr)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", stats)
}
