package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/scheduling"
	"github.com/medsihealth/medsi/utils"
	"gorm.io/gorm"
)

type appointmentUpdateInput struct {
	Status          string `json:"status"`
	Action          string `json:"action"`
	AppointmentDate string `json:"appointmentDate"`
}

func currentIdentity(c *fiber.Ctx) (uint, models.Role, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, "", fmt.Errorf("user ID not found in context")
	}
	role, ok := c.Locals("role").(models.Role)
	if !ok {
		return 0, "", fmt.Errorf("role not found in context")
	}
	return userID, role, nil
}

// ownsAppointment checks that the caller's doctor or patient profile is a
// party to the appointment.
func ownsAppointment(userID uint, role models.Role, appointment *models.Appointment) (bool, error) {
	switch role {
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := db.DB.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
			return false, err
		}
		return appointment.DoctorID == doctor.ID, nil
	case models.RolePatient:
		var patient models.Patient
		if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
			return false, err
		}
		return appointment.PatientID == patient.ID, nil
	}
	return false, nil
}

// GetAppointments lists the caller's appointments with optional status and
// date-range filters plus pagination.
func GetAppointments(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	query := db.DB.Model(&models.Appointment{})
	switch role {
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := db.DB.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Doctor profile not found"})
		}
		query = query.Where("doctor_id = ?", doctor.ID)
	case models.RolePatient:
		var patient models.Patient
		if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient profile not found"})
		}
		query = query.Where("patient_id = ?", patient.ID)
	}

	if status := c.Query("status"); status != "" {
		parsed, ok := models.ParseAppointmentStatus(status)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status"})
		}
		query = query.Where("status = ?", parsed)
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if from, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			query = query.Where("appointment_date >= ?", from)
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if to, err := time.Parse(time.RFC3339, dateTo); err == nil {
			query = query.Where("appointment_date <= ?", to)
		}
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	err = query.
		Preload("Doctor.User").Preload("Patient.User").
		Order("appointment_date asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"meta": fiber.Map{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
		"data": appointments,
	})
}

// GetAppointment returns a single appointment the caller is a party to.
func GetAppointment(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	var appointment models.Appointment
	if err := db.DB.Preload("Doctor.User").Preload("Patient.User").Preload("Prescription").
		First(&appointment, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Appointment not found"})
	}

	owns, err := ownsAppointment(userID, role, &appointment)
	if err != nil || !owns {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not authorized to view this appointment",
		})
	}

	return c.JSON(fiber.Map{"appointment": appointment})
}

// UpdateAppointment drives the appointment state machine. Doctors set a
// terminal status; patients cancel or reschedule. Cancellation releases
// the slot; a reschedule re-opens the appointment as UPCOMING after the
// conflict check.
func UpdateAppointment(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Appointment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointment",
			Error:   err.Error(),
		})
	}

	owns, err := ownsAppointment(userID, role, &appointment)
	if err != nil || !owns {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not authorized to modify this appointment",
		})
	}

	var input appointmentUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}

	// Cancel: either action=cancel or status=CANCELLED.
	if input.Action == "cancel" || models.AppointmentStatus(input.Status) == models.StatusCancelled {
		if err := scheduling.CancelAppointment(db.DB, &appointment); err != nil {
			return utils.RespondError(c, err)
		}
		notifyCancellation(&appointment)
		return c.JSON(fiber.Map{"message": "Appointment cancelled", "appointment": appointment})
	}

	// Doctor-side status change.
	if input.Status != "" {
		if role != models.RoleDoctor {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only the doctor can set this status",
			})
		}
		status, ok := models.ParseAppointmentStatus(input.Status)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status"})
		}
		if status == models.StatusCompleted {
			if err := scheduling.CompleteAppointment(db.DB, &appointment); err != nil {
				return utils.RespondError(c, err)
			}
			return c.JSON(fiber.Map{"message": "Appointment updated", "appointment": appointment})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status"})
	}

	// Reschedule.
	if input.AppointmentDate != "" {
		newDate, err := time.Parse(time.RFC3339, input.AppointmentDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid appointmentDate"})
		}
		if err := scheduling.RescheduleAppointment(db.DB, &appointment, newDate); err != nil {
			return utils.RespondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Appointment rescheduled", "appointment": appointment})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No valid action provided"})
}

// DeleteAppointment hard-deletes an appointment, releasing its slot and
// removing the dependent prescription.
func DeleteAppointment(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Appointment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointment",
			Error:   err.Error(),
		})
	}

	owns, err := ownsAppointment(userID, role, &appointment)
	if err != nil || !owns {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not authorized to delete this appointment",
		})
	}

	if err := scheduling.DeleteAppointment(db.DB, appointment.ID); err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Appointment deleted"})
}

// notifyCancellation emails both parties, best effort.
func notifyCancellation(appointment *models.Appointment) {
	var doctor models.Doctor
	var patient models.Patient
	if err := db.DB.Preload("User").First(&doctor, appointment.DoctorID).Error; err != nil {
		return
	}
	if err := db.DB.Preload("User").First(&patient, appointment.PatientID).Error; err != nil {
		return
	}

	body := fmt.Sprintf(`
		<p>The appointment on %s has been cancelled.</p>
		<p><strong>Doctor:</strong> %s</p>
		<p><strong>Patient:</strong> %s</p>
	`, appointment.AppointmentDate.Format("2006-01-02 15:04"),
		doctor.User.Name, patient.User.Name)

	utils.SendEmailAsync(patient.User.Email, "Appointment cancelled", body)
	utils.SendEmailAsync(doctor.User.Email, "Appointment cancelled", body)
}
