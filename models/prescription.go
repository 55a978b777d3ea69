package models

import (
	"gorm.io/gorm"
)

// Prescription is one-to-one with an appointment and upserted per visit.
type Prescription struct {
	gorm.Model
	AppointmentID uint    `json:"appointment_id" gorm:"uniqueIndex"`
	DoctorID      uint    `json:"doctor_id" gorm:"index"`
	Doctor        Doctor  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	PatientID     uint    `json:"patient_id" gorm:"index"`
	Patient       Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	Diagnosis     string  `json:"diagnosis"`
	Medicines     string  `json:"medicines"`
	Notes         string  `json:"notes"`
}
