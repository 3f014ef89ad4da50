package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"task-management/internal/service"
)

// Options tunes the HTTP surface.
type Options struct {
	AllowOrigins    string
	DefaultPageSize int
	// Quiet disables the request logger.
	Quiet bool
}

// NewApp builds the fiber application serving the persona and task API.
func NewApp(personas *service.PersonaService, tasks *service.TaskService, opts Options) *fiber.App {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}

	app := fiber.New(fiber.Config{
		AppName:      "task-management",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if !opts.Quiet {
		app.Use(logger.New())
	}
	if opts.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowOrigins,
			AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept",
			MaxAge:       86400,
		}))
	}

	personaHandler := NewPersonaHandler(personas, opts.DefaultPageSize)
	taskHandler := NewTaskHandler(tasks, opts.DefaultPageSize)

	api := app.Group("/api")

	personaRoutes := api.Group("/personas")
	personaRoutes.Get("/", personaHandler.List)
	personaRoutes.Get("/all", personaHandler.ListAll)
	personaRoutes.Get("/:id", personaHandler.Get)
	personaRoutes.Post("/", personaHandler.Create)
	personaRoutes.Put("/:id", personaHandler.Update)
	personaRoutes.Delete("/:id", personaHandler.Delete)

	taskRoutes := api.Group("/tasks")
	taskRoutes.Get("/", taskHandler.List)
	taskRoutes.Get("/:id", taskHandler.Get)
	taskRoutes.Post("/", taskHandler.Create)
	taskRoutes.Put("/:id", taskHandler.Update)
	taskRoutes.Patch("/:id/done", taskHandler.SetDone)
	taskRoutes.Delete("/:id", taskHandler.Delete)

	return app
}
