package routes

import (
	"github.com/gofiber/fiber/v2"
	patientctl "github.com/medsihealth/medsi/controllers/patient"
	"github.com/medsihealth/medsi/middleware"
	"github.com/medsihealth/medsi/models"
)

// SetupPatientRoutes configures the patient workspace routes
func SetupPatientRoutes(app *fiber.App) {
	patient := app.Group("/patient", middleware.Protected(), middleware.RequireRole(models.RolePatient))

	patient.Get("/dashboard", patientctl.GetDashboard)
	patient.Get("/profile", patientctl.GetProfile)
	patient.Put("/profile", patientctl.UpdateProfile)
	patient.Get("/prescriptions", patientctl.GetPrescriptions)
	patient.Get("/reports", patientctl.GetReports)
}
