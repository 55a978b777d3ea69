package scheduling

import (
	"errors"
	"time"

	"github.com/medsihealth/medsi/models"
	"gorm.io/gorm"
)

// HasUpcomingConflict reports whether the doctor already has an UPCOMING
// appointment at exactly date, excluding excludeID (the appointment being
// rescheduled, so a no-op reschedule onto its own time succeeds).
func HasUpcomingConflict(db *gorm.DB, doctorID uint, date time.Time, excludeID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status = ? AND id <> ?",
			doctorID, date, models.StatusUpcoming, excludeID).
		Count(&count).Error
	if err != nil {
		return false, internal("Failed to check for conflicts", err)
	}
	return count > 0, nil
}

// RescheduleAppointment moves an appointment to a new date and re-opens it
// as UPCOMING after the conflict check.
func RescheduleAppointment(db *gorm.DB, appointment *models.Appointment, newDate time.Time) error {
	if newDate.IsZero() {
		return validation("Invalid appointmentDate")
	}
	conflicting, err := HasUpcomingConflict(db, appointment.DoctorID, newDate, appointment.ID)
	if err != nil {
		return err
	}
	if conflicting {
		return conflict("Selected new slot is already booked for this doctor")
	}

	appointment.AppointmentDate = newDate
	appointment.Status = models.StatusUpcoming
	err = db.Model(appointment).Updates(map[string]interface{}{
		"appointment_date": newDate,
		"status":           models.StatusUpcoming,
	}).Error
	if err != nil {
		return internal("Failed to reschedule appointment", err)
	}
	return nil
}

// CancelAppointment moves an appointment to CANCELLED and releases its
// slot in the same transaction. The row is kept.
func CancelAppointment(db *gorm.DB, appointment *models.Appointment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := appointment.UpdateStatus(tx, models.StatusCancelled); err != nil {
			return validation(err.Error())
		}
		return ReleaseSlot(tx, appointment.ID)
	})
}

// CompleteAppointment marks an appointment COMPLETED. The slot stays
// BOOKED; the interval was consumed.
func CompleteAppointment(db *gorm.DB, appointment *models.Appointment) error {
	if err := appointment.UpdateStatus(db, models.StatusCompleted); err != nil {
		return validation(err.Error())
	}
	return nil
}

// DeleteAppointment releases the slot, removes the dependent prescription
// and hard-deletes the appointment row, all in one transaction.
func DeleteAppointment(db *gorm.DB, appointmentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.First(&appointment, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Appointment not found")
			}
			return internal("Failed to fetch appointment", err)
		}
		if err := ReleaseSlot(tx, appointment.ID); err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("appointment_id = ?", appointment.ID).
			Delete(&models.Prescription{}).Error; err != nil {
			return internal("Failed to delete prescription", err)
		}
		if err := tx.Unscoped().Delete(&appointment).Error; err != nil {
			return internal("Failed to delete appointment", err)
		}
		return nil
	})
}
