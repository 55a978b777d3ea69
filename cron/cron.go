package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/scheduling"
	"github.com/medsihealth/medsi/utils"
	"github.com/robfig/cron/v3"
)

// StartCronJobs initializes and starts the cron scheduler for the slot
// expiry sweep and appointment reminders
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()

	// Expire stale slots every minute. Read paths also sweep; this keeps
	// the AVAILABLE set tight even when nobody is reading.
	if _, err := c.AddFunc("* * * * *", expireSlots); err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}

	// Run every minute to check for appointments in the next hour
	if _, err := c.AddFunc("* * * * *", sendAppointmentReminders); err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

func expireSlots() {
	if err := scheduling.ExpireSlots(db.DB, time.Now()); err != nil {
		log.Printf("Slot expiry sweep failed: %v", err)
	}
}

// sendAppointmentReminders checks for appointments and sends reminders
func sendAppointmentReminders() {
	var appointments []models.Appointment
	now := time.Now()
	// Look for appointments starting in the next hour
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	err := db.DB.Preload("Patient.User").Preload("Doctor.User").
		Where("status = ? AND appointment_date BETWEEN ? AND ?",
			models.StatusUpcoming, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.User.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := "Reminder: Upcoming Appointment"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Reason:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
	`, appointment.Patient.User.Name, appointment.Doctor.User.Name,
		appointment.AppointmentDate.Format("2006-01-02 15:04:05"),
		appointment.Reason)

	return utils.SendEmail(appointment.Patient.User.Email, subject, body)
}
