package routes

import (
	"pantry/handlers"
	"pantry/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/register", handlers.HandleRegister)
	auth.Post("/login", handlers.HandleLogin)

	// --- Pantry Routes ---
	pantry := api.Group("/pantry", middleware.JWTMiddleware)

	// Dashboard
	pantry.Get("/dashboard/summary", handlers.HandleGetDashboardSummary)

	// Items
	items := pantry.Group("/items")
	items.Get("/", handlers.HandleListItems)
	items.Post("/", handlers.HandleCreateItem)
	items.Get("/:itemId", handlers.HandleGetItemByID)
	items.Put("/:itemId", handlers.HandleUpdateItem)
	items.Delete("/:itemId", handlers.HandleDeleteItem)
	items.Post("/:itemId/open", handlers.HandleOpenItem)
	items.Post("/:itemId/revert-open", handlers.HandleRevertOpen)
	items.Post("/:itemId/consume", handlers.HandleConsumeItem)
	items.Get("/:itemId/events", handlers.HandleGetItemEvents)
	items.Get("/:itemId/history", handlers.HandleGetItemStatusHistory)

	// Reminders
	reminders := pantry.Group("/reminders")
	reminders.Post("/", handlers.HandleCreateReminder)
	reminders.Get("/", handlers.HandleGetReminders)
	reminders.Put("/:reminderId/read", handlers.HandleMarkReminderAsRead)
	reminders.Delete("/:reminderId", handlers.HandleDeleteReminder)

	// Statistics
	stats := pantry.Group("/stats")
	stats.Post("/snapshot", handlers.HandleRecordStatusSnapshot)
	stats.Get("/summary", handlers.HandleGetStatsSummary)

	// --- Assistant Routes ---
	assistant := api.Group("/assistant", middleware.JWTMiddleware)
	assistant.Post("/generate", handlers.HandleGenerateText)
}
