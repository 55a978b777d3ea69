package doctor

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"gorm.io/gorm"
)

// GetDashboard returns the doctor's headline counts.
func GetDashboard(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var stats struct {
		TodayAppointments    int64     `json:"today_appointments"`
		UpcomingAppointments int64     `json:"upcoming_appointments"`
		CompletedCount       int64     `json:"completed_count"`
		CancelledCount       int64     `json:"cancelled_count"`
		LinkedPatients       int64     `json:"linked_patients"`
		PrescriptionsWritten int64     `json:"prescriptions_written"`
		LastUpdated          time.Time `json:"last_updated"`
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	appointments := func() *gorm.DB {
		return db.DB.Model(&models.Appointment{}).Where("doctor_id = ?", doctor.ID)
	}

	appointments().
		Where("appointment_date >= ? AND appointment_date < ?", dayStart, dayEnd).
		Count(&stats.TodayAppointments)
	appointments().Where("status = ?", models.StatusUpcoming).Count(&stats.UpcomingAppointments)
	appointments().Where("status = ?", models.StatusCompleted).Count(&stats.CompletedCount)
	appointments().Where("status = ?", models.StatusCancelled).Count(&stats.CancelledCount)

	db.DB.Model(&models.DoctorPatient{}).Where("doctor_id = ?", doctor.ID).Count(&stats.LinkedPatients)
	db.DB.Model(&models.Prescription{}).Where("doctor_id = ?", doctor.ID).Count(&stats.PrescriptionsWritten)

	stats.LastUpdated = now
	return c.JSON(stats)
}
