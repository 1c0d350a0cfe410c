package routes

import (
	"github.com/arnold/goalboards-api/internal/handlers"
	"github.com/arnold/goalboards-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with the full route table.
func NewApp(h *handlers.Handler, jwtSecret string, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "goalboards-api",
	})
	app.Use(recover.New())
	if accessLog {
		app.Use(logger.New())
	}
	Setup(app, h, jwtSecret)
	return app
}

func Setup(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	protected := api.Group("/", middleware.Protected(jwtSecret))

	protected.Get("/me", h.GetMe)
	protected.Put("/me", h.UpdateProfile)
	protected.Put("/me/password", h.ChangePassword)

	// Device token for push notifications
	protected.Post("/device-token", h.RegisterDeviceToken)

	// Telegram chat verification
	protected.Patch("/bot/verify", h.Verify)

	boards := protected.Group("/boards")
	boards.Get("/", h.GetBoards)
	boards.Post("/", h.CreateBoard)
	boards.Get("/:id", h.GetBoard)
	boards.Put("/:id", h.UpdateBoard)
	boards.Delete("/:id", h.DeleteBoard)

	categories := protected.Group("/categories")
	categories.Get("/", h.GetCategories)
	categories.Post("/", h.CreateCategory)
	categories.Get("/:id", h.GetCategory)
	categories.Put("/:id", h.UpdateCategory)
	categories.Delete("/:id", h.DeleteCategory)

	goals := protected.Group("/goals")
	goals.Get("/", h.GetGoals)
	goals.Post("/", h.CreateGoal)
	goals.Get("/:id", h.GetGoal)
	goals.Put("/:id", h.UpdateGoal)
	goals.Delete("/:id", h.DeleteGoal)

	comments := protected.Group("/comments")
	comments.Get("/", h.GetComments)
	comments.Post("/", h.AddComment)
	comments.Get("/:id", h.GetComment)
	comments.Put("/:id", h.UpdateComment)
	comments.Delete("/:id", h.DeleteComment)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.GetNotifications)
	notifications.Put("/:id/read", h.MarkNotificationRead)
	notifications.Post("/read-all", h.MarkAllRead)
}
