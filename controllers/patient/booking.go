package patient

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/scheduling"
	"github.com/medsihealth/medsi/utils"
)

// GetDoctors lists doctors a patient can book with.
func GetDoctors(c *fiber.Ctx) error {
	query := db.DB.Model(&models.Doctor{}).Preload("User")
	if search := c.Query("search"); search != "" {
		query = query.Joins("JOIN users ON users.id = doctors.user_id").
			Where("users.name LIKE ? OR doctors.specialization LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
			Error:   err.Error(),
		})
	}
	for i := range doctors {
		doctors[i].User.Password = ""
	}

	return c.JSON(fiber.Map{"doctors": doctors})
}

// GetDoctorSlots lists a doctor's AVAILABLE slots for booking. Expired
// slots are swept before the read so stale intervals never show up.
func GetDoctorSlots(c *fiber.Ctx) error {
	if _, err := fromContext(c); err != nil {
		return respondFiberError(c, err)
	}

	if err := scheduling.ExpireSlots(db.DB, time.Now()); err != nil {
		return utils.RespondError(c, err)
	}

	var slots []models.DoctorSlot
	err := db.DB.Where("doctor_id = ? AND status = ?", c.Params("doctorId"), models.SlotAvailable).
		Preload("Doctor.User").
		Order("start_time asc").
		Find(&slots).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch slots",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"slots": slots})
}

type bookingInput struct {
	DoctorID uint   `json:"doctorId"`
	SlotID   uint   `json:"slotId"`
	Reason   string `json:"reason"`
}

// BookAppointment godoc
// @Summary Book a doctor's slot
// @Tags appointments
// @Accept json
// @Produce json
// @Success 201 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments [post]
func BookAppointment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "User not authenticated"})
	}

	var input bookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing fields"})
	}
	if input.SlotID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing fields"})
	}

	appointment, err := scheduling.BookAppointment(db.DB, userID, input.DoctorID, input.SlotID, input.Reason)
	if err != nil {
		return utils.RespondError(c, err)
	}

	notifyBooking(appointment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Appointment booked successfully",
		"appointment": appointment,
	})
}

// notifyBooking emails both parties, best effort.
func notifyBooking(appointment *models.Appointment) {
	var doctor models.Doctor
	var patient models.Patient
	if err := db.DB.Preload("User").First(&doctor, appointment.DoctorID).Error; err != nil {
		return
	}
	if err := db.DB.Preload("User").First(&patient, appointment.PatientID).Error; err != nil {
		return
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been successfully booked.</p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Reason:</strong> %s</li>
		</ul>
	`, patient.User.Name, doctor.User.Name,
		appointment.AppointmentDate.Format("2006-01-02 15:04"), appointment.Reason)

	utils.SendEmailAsync(patient.User.Email, "Appointment confirmed", body)
	utils.SendEmailAsync(doctor.User.Email,
		fmt.Sprintf("New appointment with %s", patient.User.Name), body)
}
