package routers

import (
	"planetpath/middleware"
	"planetpath/routers/adminRoutes"
	"planetpath/routers/authRoutes"
	"planetpath/routers/courseRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the Fiber application with every route registered.
// uploadDir is served under /uploads; pass "" to skip static serving.
func NewApp(uploadDir string, requestLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Planet Path API",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    12 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	if requestLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	if uploadDir != "" {
		app.Static("/uploads", uploadDir)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupSubmissionRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	return app
}
