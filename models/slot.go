package models

import (
	"time"

	"gorm.io/gorm"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
	SlotExpired   SlotStatus = "EXPIRED"
)

// DoctorSlot is a doctor-defined bookable time interval.
// Invariant: AppointmentID != nil exactly when Status == BOOKED. The claim
// that sets both happens in a single conditional update, so the pair can
// never be observed half-written.
type DoctorSlot struct {
	gorm.Model
	DoctorID      uint         `json:"doctor_id" gorm:"index"`
	Doctor        Doctor       `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	StartTime     time.Time    `json:"start_time" gorm:"index"`
	EndTime       time.Time    `json:"end_time"`
	Duration      int          `json:"duration"` // minutes
	Status        SlotStatus   `json:"status" gorm:"type:varchar(16);default:'AVAILABLE';index"`
	AppointmentID *uint        `json:"appointment_id" gorm:"uniqueIndex"`
	Appointment   *Appointment `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
}

func (s *DoctorSlot) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = SlotAvailable
	}
	return nil
}
