package scheduling

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/medsihealth/medsi/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.DoctorPatient{},
		&models.DoctorSlot{},
		&models.Appointment{},
		&models.Prescription{},
		&models.Report{},
	)
	require.NoError(t, err)
	return db
}

func seedDoctor(t *testing.T, db *gorm.DB, email string) *models.Doctor {
	t.Helper()
	user := models.User{Name: "Dr Test", Email: email, Password: "x", Role: models.RoleDoctor}
	require.NoError(t, db.Create(&user).Error)
	doctor := models.Doctor{UserID: user.ID, Specialization: "General"}
	require.NoError(t, db.Create(&doctor).Error)
	return &doctor
}

func seedPatient(t *testing.T, db *gorm.DB, email string) *models.Patient {
	t.Helper()
	user := models.User{Name: "Pat Test", Email: email, Password: "x", Role: models.RolePatient}
	require.NoError(t, db.Create(&user).Error)
	patient := models.Patient{UserID: user.ID}
	require.NoError(t, db.Create(&patient).Error)
	return &patient
}

func seedSlot(t *testing.T, db *gorm.DB, doctorID uint, start time.Time) *models.DoctorSlot {
	t.Helper()
	slot, err := CreateSlot(db, doctorID, start, start.Add(30*time.Minute), 30, start.Add(-24*time.Hour))
	require.NoError(t, err)
	return slot
}
