package controllers

import (
	"encoding/json"
	"log"

	"planetpath/database"
	"planetpath/middleware"
	courseModels "planetpath/models/course"
	courseValidator "planetpath/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	topics, err := json.Marshal(reqData.Topics)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid topics!", nil)
	}
	if reqData.Topics == nil {
		topics = []byte("[]")
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Level:        reqData.Level,
		Topics:       datatypes.JSON(topics),
		ThumbnailURL: reqData.ThumbnailURL,
		IsEnrollable: true,
		IsPublished:  reqData.IsPublished,
	}
	if reqData.IsEnrollable != nil {
		course.IsEnrollable = *reqData.IsEnrollable
	}

	// gorm skips zero-valued fields that carry a default, so write the flags explicitly
	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	if err := database.Database.Db.Model(&course).Updates(map[string]interface{}{
		"is_enrollable": course.IsEnrollable,
		"is_published":  course.IsPublished,
	}).Error; err != nil {
		log.Printf("Error saving course flags: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminPublishCourse toggles a course's visibility
func AdminPublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData := new(struct {
		IsPublished *bool `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil && len(c.Body()) > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	publish := true
	if reqData.IsPublished != nil {
		publish = *reqData.IsPublished
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := database.Database.Db.Model(&course).Update("is_published", publish).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	message := "Course published successfully!"
	if !publish {
		message = "Course unpublished successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

// AdminCreateAssignment adds an assignment to a course
func AdminCreateAssignment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedAssignment").(*courseValidator.CreateAssignmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	assignment := courseModels.Assignment{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}
	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		log.Printf("Error creating assignment for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}
