package courseRoutes

import (
	controllers "planetpath/controllers/course"
	"planetpath/middleware"
	validators "planetpath/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course", middleware.JWTMiddleware)

	// Course listing and details (published courses only)
	userGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", validators.CourseID(), controllers.EnrollInCourse)
	userGroup.Get("/:id/enrollment", validators.CourseID(), controllers.CheckEnrollment)

	// Progress tracking
	userGroup.Get("/:id/progress", validators.CourseID(), controllers.GetCourseProgress)

	userEnrollGroup := app.Group("/user", middleware.JWTMiddleware)
	userEnrollGroup.Get("/enrollments", controllers.GetUserEnrollments)
}

// SetupSubmissionRoutes sets up project submission routes
func SetupSubmissionRoutes(app *fiber.App) {
	submissionGroup := app.Group("/submission", middleware.JWTMiddleware)

	submissionGroup.Post("/", validators.SubmitProject(), controllers.SubmitProject)
	submissionGroup.Get("/my", controllers.GetMySubmissions)
	submissionGroup.Get("/course/:id", validators.CourseID(), controllers.GetSubmissionsByCourse)
}
