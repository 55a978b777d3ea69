package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/controllers"
	"github.com/medsihealth/medsi/middleware"
	"github.com/medsihealth/medsi/models"
)

// SetupAdminRoutes configures the admin placeholder routes
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))
	admin.Get("/profile", controllers.AdminProfile)
	admin.Get("/users", controllers.AdminListUsers)
}
