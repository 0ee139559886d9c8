package courseRoutes

import (
	controllers "planetpath/controllers/course"
	validators "planetpath/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course management routes on an already-guarded admin router
func SetupAdminCourseRoutes(admin fiber.Router) {
	adminGroup := admin.Group("/course")

	adminGroup.Post("/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Post("/:id/publish", validators.CourseID(), controllers.AdminPublishCourse)
	adminGroup.Post("/:id/assignment", validators.CourseID(), validators.CreateAssignment(), controllers.AdminCreateAssignment)
	adminGroup.Get("/:id/submissions", validators.CourseID(), controllers.GetSubmissionsByCourse)
}
