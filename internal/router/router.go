package router

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gradehub/gradehub-api/internal/config"
	"github.com/gradehub/gradehub-api/internal/handler"
	"github.com/gradehub/gradehub-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	StudentHandler     *handler.StudentHandler
	FacultyHandler     *handler.FacultyHandler
	AssignmentHandler  *handler.AssignmentHandler
	SubmissionHandler  *handler.SubmissionHandler
	QuizHandler        *handler.QuizHandler
	QuizAttemptHandler *handler.QuizAttemptHandler
	MarksHandler       *handler.MarksHandler
	TimetableHandler   *handler.TimetableHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", jwtMiddleware))
	}

	if deps.FacultyHandler != nil {
		deps.FacultyHandler.Register(api.Group("/faculty", jwtMiddleware))
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(api.Group("/assignments", jwtMiddleware))
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(api.Group("/submissions", jwtMiddleware))
	}

	if deps.QuizHandler != nil {
		deps.QuizHandler.Register(api.Group("/quizzes", jwtMiddleware))
	}

	if deps.QuizAttemptHandler != nil {
		attempts := api.Group("/quiz-attempts", jwtMiddleware)
		if deps.JWTMiddleware != nil {
			attempts.Use(middleware.RequireRole("student"))
		}
		deps.QuizAttemptHandler.Register(attempts)
	}

	if deps.MarksHandler != nil {
		deps.MarksHandler.Register(api.Group("/marks", jwtMiddleware))
	}

	if deps.TimetableHandler != nil {
		deps.TimetableHandler.Register(api.Group("/timetable", jwtMiddleware))
	}
}
