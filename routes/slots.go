package routes

import (
	"github.com/gofiber/fiber/v2"
	doctorctl "github.com/medsihealth/medsi/controllers/doctor"
	"github.com/medsihealth/medsi/middleware"
	"github.com/medsihealth/medsi/models"
)

// SetupSlotRoutes configures the doctor-facing slot lifecycle routes
func SetupSlotRoutes(app *fiber.App) {
	slots := app.Group("/slots", middleware.Protected(), middleware.RequireRole(models.RoleDoctor))
	slots.Post("/", doctorctl.CreateSlot)
	slots.Get("/", doctorctl.GetSlots)
	slots.Get("/available", doctorctl.GetAvailableSlots)
	slots.Delete("/:id", doctorctl.DeleteSlot)
}
