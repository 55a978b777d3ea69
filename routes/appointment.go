package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/controllers"
	patientctl "github.com/medsihealth/medsi/controllers/patient"
	"github.com/medsihealth/medsi/middleware"
	"github.com/medsihealth/medsi/models"
)

// SetupAppointmentRoutes configures the booking and appointment routes
// shared by doctors and patients.
func SetupAppointmentRoutes(app *fiber.App) {
	// Patient-facing doctor discovery and slot browsing.
	doctors := app.Group("/doctors", middleware.Protected(), middleware.RequireRole(models.RolePatient))
	doctors.Get("/", patientctl.GetDoctors)
	doctors.Get("/:doctorId/slots", patientctl.GetDoctorSlots)

	appointment := app.Group("/appointments", middleware.Protected())
	appointment.Post("/", middleware.RequireRole(models.RolePatient), patientctl.BookAppointment)
	appointment.Get("/", controllers.GetAppointments)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Put("/:id", controllers.UpdateAppointment)
	appointment.Delete("/:id", controllers.DeleteAppointment)
}
