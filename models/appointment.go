package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusUpcoming  AppointmentStatus = "UPCOMING"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// ParseAppointmentStatus validates a status string from a request body.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return AppointmentStatus(s), true
	}
	return "", false
}

type Appointment struct {
	gorm.Model
	DoctorID        uint              `json:"doctor_id" gorm:"index"`
	Doctor          Doctor            `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	PatientID       uint              `json:"patient_id" gorm:"index"`
	Patient         Patient           `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	AppointmentDate time.Time         `json:"appointment_date" gorm:"index"`
	Reason          string            `json:"reason"`
	Status          AppointmentStatus `json:"status" gorm:"type:varchar(16);index"`
	Prescription    *Prescription     `json:"prescription,omitempty" gorm:"foreignKey:AppointmentID"`
	Slot            *DoctorSlot       `json:"slot,omitempty" gorm:"foreignKey:AppointmentID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusUpcoming
	}
	return nil
}

// UpdateStatus applies a state transition and persists it.
// UPCOMING may move to COMPLETED or CANCELLED; both are terminal.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusUpcoming:
		if newStatus != StatusCompleted && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from %s to %s", a.Status, newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	default:
		return fmt.Errorf("unknown appointment status %q", a.Status)
	}

	a.Status = newStatus
	return tx.Model(a).Update("status", newStatus).Error
}
