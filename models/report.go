package models

import (
	"gorm.io/gorm"
)

type Report struct {
	gorm.Model
	PatientID   uint    `json:"patient_id" gorm:"index"`
	Patient     Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID    uint    `json:"doctor_id" gorm:"index"`
	Doctor      Doctor  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	FileURL     string  `json:"file_url"`
	FileType    string  `json:"file_type"`
	Description string  `json:"description"`
}
