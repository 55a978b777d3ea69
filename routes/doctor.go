package routes

import (
	"github.com/gofiber/fiber/v2"
	doctorctl "github.com/medsihealth/medsi/controllers/doctor"
	"github.com/medsihealth/medsi/middleware"
	"github.com/medsihealth/medsi/models"
)

// SetupDoctorRoutes configures the doctor workspace routes
func SetupDoctorRoutes(app *fiber.App) {
	doctor := app.Group("/doctor", middleware.Protected(), middleware.RequireRole(models.RoleDoctor))

	doctor.Get("/dashboard", doctorctl.GetDashboard)

	doctor.Get("/patients", doctorctl.GetPatients)
	doctor.Get("/patients/:id", doctorctl.GetPatientDetails)
	doctor.Post("/patients", doctorctl.CreatePatientAndLink)
	doctor.Post("/patients/link", doctorctl.LinkPatient)
	doctor.Put("/patients/:id", doctorctl.UpdatePatient)
	doctor.Delete("/patients/:id", doctorctl.UnlinkPatient)

	doctor.Post("/appointments/:appointmentId/prescription", doctorctl.UpsertPrescription)

	doctor.Post("/reports", doctorctl.UploadReport)
	doctor.Get("/reports", doctorctl.GetReports)
}
