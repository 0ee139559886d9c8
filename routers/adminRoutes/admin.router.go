package adminRoutes

import (
	adminControllers "planetpath/controllers/admin"
	courseControllers "planetpath/controllers/course"
	"planetpath/middleware"
	"planetpath/models"
	"planetpath/routers/courseRoutes"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/users", adminControllers.ListUsers)
	adminGroup.Patch("/users/:id/block", adminControllers.SetUserBlocked)
	adminGroup.Get("/dashboard", courseControllers.AdminDashboard)

	courseRoutes.SetupAdminCourseRoutes(adminGroup)
}
