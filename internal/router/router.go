package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kelas-go-api/internal/config"
	"github.com/noah-isme/kelas-go-api/internal/handler"
	"github.com/noah-isme/kelas-go-api/internal/middleware"
	"github.com/noah-isme/kelas-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler       *handler.CourseHandler
	ModuleHandler       *handler.ModuleHandler
	ResourceHandler     *handler.ResourceHandler
	AssessmentHandler   *handler.AssessmentHandler
	EnrollmentHandler   *handler.EnrollmentHandler
	NotificationHandler *handler.NotificationHandler
	ActivityHandler     *handler.ActivityHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	courses := api.Group("/courses", jwtMiddleware)
	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(courses)
	}

	if deps.ModuleHandler != nil {
		modules := api.Group("/modules", jwtMiddleware)
		deps.ModuleHandler.Register(courses, modules)

		if deps.ResourceHandler != nil {
			resources := api.Group("/resources", jwtMiddleware)
			deps.ResourceHandler.Register(modules, resources)
		}
	}

	if deps.AssessmentHandler != nil {
		assessments := api.Group("/assessments", jwtMiddleware,
			middleware.RateLimit("assessments", 30, time.Minute))
		deps.AssessmentHandler.Register(courses, assessments)
	}

	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(courses)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware)
		deps.ActivityHandler.Register(activities)
	}
}
