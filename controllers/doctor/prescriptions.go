package doctor

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/utils"
	"gorm.io/gorm"
)

type prescriptionInput struct {
	Diagnosis string `json:"diagnosis"`
	Medicines string `json:"medicines"`
	Notes     string `json:"notes"`
}

// UpsertPrescription creates or updates the one prescription attached to
// an appointment.
func UpsertPrescription(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, c.Params("appointmentId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Appointment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
	if appointment.DoctorID != doctor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not authorized to prescribe for this appointment",
		})
	}

	var input prescriptionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}

	var prescription models.Prescription
	err = db.DB.Where("appointment_id = ?", appointment.ID).First(&prescription).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		prescription = models.Prescription{
			AppointmentID: appointment.ID,
			DoctorID:      doctor.ID,
			PatientID:     appointment.PatientID,
			Diagnosis:     input.Diagnosis,
			Medicines:     input.Medicines,
			Notes:         input.Notes,
		}
		if err := db.DB.Create(&prescription).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create prescription",
				Error:   err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":      "Prescription created",
			"prescription": prescription,
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	updates := map[string]interface{}{
		"diagnosis": input.Diagnosis,
		"medicines": input.Medicines,
		"notes":     input.Notes,
	}
	if err := db.DB.Model(&prescription).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update prescription",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Prescription updated", "prescription": prescription})
}
