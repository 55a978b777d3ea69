package models

import (
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"uniqueIndex"`
	User          User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DOB           *time.Time     `json:"dob"`
	Gender        string         `json:"gender"`
	BloodGroup    string         `json:"blood_group"`
	MedicalNotes  string         `json:"medical_notes"`
	Appointments  []Appointment  `json:"appointments,omitempty" gorm:"foreignKey:PatientID"`
	Prescriptions []Prescription `json:"prescriptions,omitempty" gorm:"foreignKey:PatientID"`
	Reports       []Report       `json:"reports,omitempty" gorm:"foreignKey:PatientID"`
}
