package db

import (
	"fmt"
	"log"

	"github.com/medsihealth/medsi/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.DoctorPatient{},
		&models.DoctorSlot{},
		&models.Appointment{},
		&models.Prescription{},
		&models.Report{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
