package patient

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
)

// GetProfile returns the patient profile with the owning user.
func GetProfile(c *fiber.Ctx) error {
	patient, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var full models.Patient
	if err := db.DB.Preload("User").First(&full, patient.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient profile not found"})
	}
	full.User.Password = ""

	return c.JSON(fiber.Map{"patient": full})
}

// UpdateProfile edits the patient's own profile fields, and optionally the
// user display name.
func UpdateProfile(c *fiber.Ctx) error {
	patient, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var input struct {
		Name         string `json:"name"`
		DOB          string `json:"dob"`
		Gender       string `json:"gender"`
		BloodGroup   string `json:"bloodGroup"`
		MedicalNotes string `json:"medicalNotes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}

	updates := map[string]interface{}{}
	if input.Gender != "" {
		updates["gender"] = input.Gender
	}
	if input.BloodGroup != "" {
		updates["blood_group"] = input.BloodGroup
	}
	if input.MedicalNotes != "" {
		updates["medical_notes"] = input.MedicalNotes
	}
	if input.DOB != "" {
		dob, err := time.Parse(time.RFC3339, input.DOB)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid dob"})
		}
		updates["dob"] = dob
	}
	if len(updates) > 0 {
		if err := db.DB.Model(patient).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update profile"})
		}
	}
	if input.Name != "" {
		if err := db.DB.Model(&models.User{}).Where("id = ?", patient.UserID).
			Update("name", input.Name).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update profile"})
		}
	}

	var full models.Patient
	db.DB.Preload("User").First(&full, patient.ID)
	full.User.Password = ""

	return c.JSON(fiber.Map{"message": "Profile updated", "patient": full})
}

// GetDashboard returns the patient's headline counts.
func GetDashboard(c *fiber.Ctx) error {
	patient, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var stats struct {
		UpcomingAppointments int64 `json:"upcoming_appointments"`
		CompletedVisits      int64 `json:"completed_visits"`
		Prescriptions        int64 `json:"prescriptions"`
		Reports              int64 `json:"reports"`
	}

	db.DB.Model(&models.Appointment{}).
		Where("patient_id = ? AND status = ?", patient.ID, models.StatusUpcoming).
		Count(&stats.UpcomingAppointments)
	db.DB.Model(&models.Appointment{}).
		Where("patient_id = ? AND status = ?", patient.ID, models.StatusCompleted).
		Count(&stats.CompletedVisits)
	db.DB.Model(&models.Prescription{}).Where("patient_id = ?", patient.ID).Count(&stats.Prescriptions)
	db.DB.Model(&models.Report{}).Where("patient_id = ?", patient.ID).Count(&stats.Reports)

	return c.JSON(stats)
}
