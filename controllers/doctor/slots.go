package doctor

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/scheduling"
	"github.com/medsihealth/medsi/utils"
)

type slotInput struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  int       `json:"duration"`
}

// CreateSlot godoc
// @Summary Create a bookable slot
// @Tags slots
// @Accept json
// @Produce json
// @Success 201 {object} models.DoctorSlot
// @Failure 400 {object} utils.ErrorResponse
// @Router /slots [post]
func CreateSlot(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var input slotInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing fields"})
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() || input.Duration == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing fields"})
	}

	slot, err := scheduling.CreateSlot(db.DB, doctor.ID, input.StartTime, input.EndTime, input.Duration, time.Now())
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Slot created",
		"slot":    slot,
	})
}

// GetSlots lists all of the doctor's slots, booked ones included, with the
// linked appointment and patient preloaded. Expired slots are swept first.
func GetSlots(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	if err := scheduling.ExpireSlots(db.DB, time.Now()); err != nil {
		return utils.RespondError(c, err)
	}

	var slots []models.DoctorSlot
	err = db.DB.Where("doctor_id = ?", doctor.ID).
		Preload("Appointment.Patient.User").
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

// GetAvailableSlots lists only AVAILABLE future slots.
func GetAvailableSlots(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	now := time.Now()
	if err := scheduling.ExpireSlots(db.DB, now); err != nil {
		return utils.RespondError(c, err)
	}

	var slots []models.DoctorSlot
	err = db.DB.Where("doctor_id = ? AND status = ? AND start_time >= ?",
		doctor.ID, models.SlotAvailable, now).
		Order("start_time asc").
		Find(&slots).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch available slots",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"slots": slots})
}

// DeleteSlot removes an unbooked slot owned by the doctor.
func DeleteSlot(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	slotID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid slot id"})
	}

	if err := scheduling.DeleteSlot(db.DB, uint(slotID), doctor.ID); err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Slot deleted"})
}
