package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/echotube/echotube/pkg/dashboard"
	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/youtube"
)

// setupMiddleware configures global middleware for the Fiber app
func setupMiddleware(app *fiber.App, allowedOrigins []string) {
	// Recovery middleware catches panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Logger middleware for request logging
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// CORS middleware for the dashboard origin. Credentials are required
	// because the session rides in a cookie.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: allowedOrigins[0] != "*",
	}))
}

// ErrorHandler maps domain errors onto HTTP statuses
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, session.ErrNotAuthenticated):
		code = fiber.StatusUnauthorized
		message = "Not authenticated"
	case errors.Is(err, youtube.ErrNoChannel):
		code = fiber.StatusNotFound
		message = "No channel found for this account"
	case errors.Is(err, dashboard.ErrUnknownAction):
		code = fiber.StatusBadRequest
		message = "Unknown comment action"
	case errors.Is(err, youtube.ErrQuotaExceeded), errors.Is(err, youtube.ErrUnavailable):
		code = fiber.StatusBadGateway
		message = "Metrics source unavailable"
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
