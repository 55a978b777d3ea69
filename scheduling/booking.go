package scheduling

import (
	"errors"

	"github.com/medsihealth/medsi/models"
	"gorm.io/gorm"
)

// BookAppointment books a slot for the patient behind patientUserID.
//
// The claim is a conditional update on the slot row: the appointment is
// created and the slot flipped to BOOKED in one transaction, and the flip
// only matches while the slot is still AVAILABLE. If another booker got
// there first the update matches zero rows and the whole transaction rolls
// back, so at most one caller ever succeeds per slot and a BOOKED slot
// always carries its appointment id.
func BookAppointment(db *gorm.DB, patientUserID, doctorID, slotID uint, reason string) (*models.Appointment, error) {
	var patient models.Patient
	if err := db.Where("user_id = ?", patientUserID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Patient profile not found")
		}
		return nil, internal("Failed to fetch patient", err)
	}

	var slot models.DoctorSlot
	if err := db.First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Slot not found")
		}
		return nil, internal("Failed to fetch slot", err)
	}
	if slot.Status != models.SlotAvailable {
		return nil, conflict("Slot not available")
	}
	if doctorID == 0 {
		doctorID = slot.DoctorID
	}
	if doctorID != slot.DoctorID {
		return nil, conflict("Slot does not belong to this doctor")
	}

	appointment := models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patient.ID,
		AppointmentDate: slot.StartTime,
		Reason:          reason,
		Status:          models.StatusUpcoming,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&appointment).Error; err != nil {
			return internal("Failed to create appointment", err)
		}

		// Claim the slot only while it is still AVAILABLE.
		claim := tx.Model(&models.DoctorSlot{}).
			Where("id = ? AND status = ?", slot.ID, models.SlotAvailable).
			Updates(map[string]interface{}{
				"status":         models.SlotBooked,
				"appointment_id": appointment.ID,
			})
		if claim.Error != nil {
			return internal("Failed to claim slot", claim.Error)
		}
		if claim.RowsAffected != 1 {
			return conflict("Slot not available")
		}

		// The doctor follows this patient from the first booking on.
		link := models.DoctorPatient{DoctorID: doctorID, PatientID: patient.ID}
		if err := tx.Where("doctor_id = ? AND patient_id = ?", doctorID, patient.ID).
			FirstOrCreate(&link).Error; err != nil {
			return internal("Failed to link patient", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}
