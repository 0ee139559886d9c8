package middleware

import (
	"errors"
	"log"

	"planetpath/views"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler answers any error that escapes a handler with the JSON envelope
// and the error page the client should render.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	page := views.ErrorPageFor(code)
	return JsonResponse(c, code, false, page.Message, fiber.Map{
		"error_page": page,
	})
}
