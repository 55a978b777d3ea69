package scheduling

import (
	"errors"
	"time"

	"github.com/medsihealth/medsi/models"
	"gorm.io/gorm"
)

// CreateSlot validates and persists a new AVAILABLE slot for a doctor.
// Validation happens before anything touches the database.
func CreateSlot(db *gorm.DB, doctorID uint, start, end time.Time, duration int, now time.Time) (*models.DoctorSlot, error) {
	if start.IsZero() || end.IsZero() || duration <= 0 {
		return nil, validation("Missing fields")
	}
	if !end.After(start) {
		return nil, validation("endTime must be after startTime")
	}
	if !end.After(now) {
		return nil, validation("Slot must end in the future")
	}

	slot := models.DoctorSlot{
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   end,
		Duration:  duration,
		Status:    models.SlotAvailable,
	}
	if err := db.Create(&slot).Error; err != nil {
		return nil, internal("Failed to create slot", err)
	}
	return &slot, nil
}

// ExpireSlots marks every AVAILABLE slot whose end time has passed as
// EXPIRED. It only narrows the AVAILABLE set, so it is idempotent and safe
// to run as a sweep on every read path. The caller supplies now so expiry
// is deterministic under test.
func ExpireSlots(db *gorm.DB, now time.Time) error {
	err := db.Model(&models.DoctorSlot{}).
		Where("status = ? AND end_time < ?", models.SlotAvailable, now).
		Update("status", models.SlotExpired).Error
	if err != nil {
		return internal("Failed to expire slots", err)
	}
	return nil
}

// DeleteSlot removes a slot owned by the requesting doctor. Booked slots
// cannot be deleted; the appointment has to be cancelled first, which
// releases the slot back to AVAILABLE.
func DeleteSlot(db *gorm.DB, slotID, doctorID uint) error {
	var slot models.DoctorSlot
	if err := db.First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Slot not found")
		}
		return internal("Failed to fetch slot", err)
	}
	if slot.DoctorID != doctorID {
		return forbidden("Not your slot")
	}
	if slot.Status == models.SlotBooked || slot.AppointmentID != nil {
		return conflict("Cannot delete a booked slot")
	}
	if err := db.Unscoped().Delete(&slot).Error; err != nil {
		return internal("Failed to delete slot", err)
	}
	return nil
}

// ReleaseSlot returns any slot referencing the appointment to AVAILABLE
// and clears the back-reference. No-op when no slot references it.
func ReleaseSlot(tx *gorm.DB, appointmentID uint) error {
	err := tx.Model(&models.DoctorSlot{}).
		Where("appointment_id = ?", appointmentID).
		Updates(map[string]interface{}{
			"status":         models.SlotAvailable,
			"appointment_id": nil,
		}).Error
	if err != nil {
		return internal("Failed to release slot", err)
	}
	return nil
}
