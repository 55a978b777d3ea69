package models

import (
	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	UserID         uint          `json:"user_id" gorm:"uniqueIndex"`
	User           User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Specialization string        `json:"specialization"`
	LicenseNo      string        `json:"license_no"`
	Slots          []DoctorSlot  `json:"slots,omitempty" gorm:"foreignKey:DoctorID"`
	Appointments   []Appointment `json:"appointments,omitempty" gorm:"foreignKey:DoctorID"`
}

// DoctorPatient records which patients are followed by which doctor.
// Created on booking or explicit linking; deleting the link never deletes
// the underlying Patient.
type DoctorPatient struct {
	gorm.Model
	DoctorID  uint    `json:"doctor_id" gorm:"uniqueIndex:idx_doctor_patient"`
	Doctor    Doctor  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	PatientID uint    `json:"patient_id" gorm:"uniqueIndex:idx_doctor_patient"`
	Patient   Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
}
