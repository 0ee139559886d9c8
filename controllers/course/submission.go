package controllers

import (
	"log"
	"os"
	"path/filepath"

	"planetpath/config"
	"planetpath/database"
	"planetpath/middleware"
	"planetpath/models"
	courseModels "planetpath/models/course"
	"planetpath/utils"
	courseValidator "planetpath/validators/course"
	"planetpath/views"

	"github.com/gofiber/fiber/v2"
)

// SubmitProject stores a project photo for an assignment of a course the caller is enrolled in
func SubmitProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return nil
	}

	form, ok := c.Locals("validatedSubmission").(*courseValidator.SubmissionForm)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	course, err := findPublishedCourse(int(form.CourseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var assignment courseModels.Assignment
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", form.AssignmentID, course.ID, false).
		First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	fileName, err := utils.SaveUploadedFile(form.Image, form.ImageMIME, config.AppConfig.UploadDir)
	if err != nil {
		log.Printf("Error saving submission image for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
	}

	submission := courseModels.Submission{
		UserID:       user.ID,
		CourseID:     course.ID,
		AssignmentID: assignment.ID,
		Description:  form.Description,
		ImageURL:     utils.GetFileURL(fileName),
	}
	if form.Latitude != nil && form.Longitude != nil {
		submission.Geotag = &courseModels.Geotag{Lat: *form.Latitude, Lng: *form.Longitude}
	}

	if err := db.Create(&submission).Error; err != nil {
		log.Printf("Error saving submission for user %d: %v", user.ID, err)
		if err := os.Remove(filepath.Join(config.AppConfig.UploadDir, fileName)); err != nil {
			log.Printf("Error removing orphaned upload %s: %v", fileName, err)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit project!", nil)
	}

	if err := utils.UpdateEnrollmentProgress(db, user.ID, course.ID); err != nil {
		// the cron job will catch up
		log.Printf("Error updating progress for user %d in course %d: %v", user.ID, course.ID, err)
	}

	go utils.SendSubmissionEmail(user.Email, user.Name, course.Title, assignment.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Project submitted successfully!", submission)
}

// GetSubmissionsByCourse lists the caller's submissions for a course; admins see everyone's
func GetSubmissionsByCourse(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false)
	if user.Role != models.RoleAdmin {
		db = db.Where("user_id = ?", user.ID)
	}

	submissions := []courseModels.Submission{}
	if err := db.Order("created_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return submissionList(c, submissions)
}

// GetMySubmissions lists all of the caller's submissions
func GetMySubmissions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return nil
	}

	submissions := []courseModels.Submission{}
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").
		Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return submissionList(c, submissions)
}

func submissionList(c *fiber.Ctx, submissions []courseModels.Submission) error {
	data := fiber.Map{"submissions": submissions}
	if len(submissions) == 0 {
		data["empty_state"] = views.Empty(views.EmptyProjects)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", data)
}
