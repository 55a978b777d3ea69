package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.DoctorPatient{},
		&models.DoctorSlot{},
		&models.Appointment{},
		&models.Prescription{},
		&models.Report{},
	))
	db.DB = testDB

	app := fiber.New()
	SetupAuthRoutes(app)
	SetupSlotRoutes(app)
	SetupAppointmentRoutes(app)
	SetupDoctorRoutes(app)
	SetupPatientRoutes(app)
	SetupAdminRoutes(app)
	return app
}

func seedDoctor(t *testing.T, email string) *models.Doctor {
	t.Helper()
	user := models.User{Name: "Dr Who", Email: email, Password: "x", Role: models.RoleDoctor}
	require.NoError(t, db.DB.Create(&user).Error)
	doctor := models.Doctor{UserID: user.ID, Specialization: "Cardiology"}
	require.NoError(t, db.DB.Create(&doctor).Error)
	return &doctor
}

func seedPatient(t *testing.T, email string) *models.Patient {
	t.Helper()
	user := models.User{Name: "Jane Roe", Email: email, Password: "x", Role: models.RolePatient}
	require.NoError(t, db.DB.Create(&user).Error)
	patient := models.Patient{UserID: user.ID}
	require.NoError(t, db.DB.Create(&patient).Error)
	return &patient
}

func makeToken(t *testing.T, userID uint, role models.Role) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":   userID,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("solid_secret_key"))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func TestSlotRoutesRequireDoctorRole(t *testing.T) {
	app := setupApp(t)
	patient := seedPatient(t, "pat@example.com")
	token := makeToken(t, patient.UserID, models.RolePatient)

	resp, _ := doJSON(t, app, "GET", "/slots/", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/slots/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBookingFlow(t *testing.T) {
	app := setupApp(t)
	doctor := seedDoctor(t, "doc@example.com")
	patient := seedPatient(t, "pat@example.com")
	doctorToken := makeToken(t, doctor.UserID, models.RoleDoctor)
	patientToken := makeToken(t, patient.UserID, models.RolePatient)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)

	// Doctor publishes a slot.
	resp, body := doJSON(t, app, "POST", "/slots/", doctorToken, fiber.Map{
		"startTime": start.Format(time.RFC3339),
		"endTime":   start.Add(30 * time.Minute).Format(time.RFC3339),
		"duration":  30,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	slot := body["slot"].(map[string]interface{})
	slotID := uint(slot["ID"].(float64))

	// Missing fields are rejected before persistence.
	resp, _ = doJSON(t, app, "POST", "/slots/", doctorToken, fiber.Map{"duration": 30})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Patient sees the slot.
	resp, body = doJSON(t, app, "GET", fmt.Sprintf("/doctors/%d/slots", doctor.ID), patientToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["slots"], 1)

	// Patient books it.
	resp, body = doJSON(t, app, "POST", "/appointments/", patientToken, fiber.Map{
		"doctorId": doctor.ID,
		"slotId":   slotID,
		"reason":   "checkup",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	appointment := body["appointment"].(map[string]interface{})
	appointmentID := uint(appointment["ID"].(float64))
	assert.Equal(t, string(models.StatusUpcoming), appointment["status"])

	var storedSlot models.DoctorSlot
	require.NoError(t, db.DB.First(&storedSlot, slotID).Error)
	assert.Equal(t, models.SlotBooked, storedSlot.Status)
	require.NotNil(t, storedSlot.AppointmentID)
	assert.Equal(t, appointmentID, *storedSlot.AppointmentID)

	// Second booking attempt on the same slot conflicts.
	other := seedPatient(t, "other@example.com")
	otherToken := makeToken(t, other.UserID, models.RolePatient)
	resp, body = doJSON(t, app, "POST", "/appointments/", otherToken, fiber.Map{
		"doctorId": doctor.ID,
		"slotId":   slotID,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Slot not available", body["message"])

	// The booked slot cannot be deleted.
	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/slots/%d", slotID), doctorToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// A stranger cannot touch the appointment.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/appointments/%d", appointmentID), otherToken, fiber.Map{
		"action": "cancel",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The patient cancels; the slot is released.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/appointments/%d", appointmentID), patientToken, fiber.Map{
		"action": "cancel",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.DB.First(&storedSlot, slotID).Error)
	assert.Equal(t, models.SlotAvailable, storedSlot.Status)
	assert.Nil(t, storedSlot.AppointmentID)

	var storedAppointment models.Appointment
	require.NoError(t, db.DB.First(&storedAppointment, appointmentID).Error)
	assert.Equal(t, models.StatusCancelled, storedAppointment.Status)
}

func TestRescheduleConflictOverHTTP(t *testing.T) {
	app := setupApp(t)
	doctor := seedDoctor(t, "doc@example.com")
	patient := seedPatient(t, "pat@example.com")
	doctorToken := makeToken(t, doctor.UserID, models.RoleDoctor)
	patientToken := makeToken(t, patient.UserID, models.RolePatient)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	for _, offset := range []time.Duration{0, time.Hour} {
		resp, _ := doJSON(t, app, "POST", "/slots/", doctorToken, fiber.Map{
			"startTime": start.Add(offset).Format(time.RFC3339),
			"endTime":   start.Add(offset + 30*time.Minute).Format(time.RFC3339),
			"duration":  30,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	var slots []models.DoctorSlot
	require.NoError(t, db.DB.Order("start_time asc").Find(&slots).Error)
	require.Len(t, slots, 2)

	var appointmentIDs []uint
	for _, s := range slots {
		resp, body := doJSON(t, app, "POST", "/appointments/", patientToken, fiber.Map{
			"doctorId": doctor.ID,
			"slotId":   s.ID,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		appointment := body["appointment"].(map[string]interface{})
		appointmentIDs = append(appointmentIDs, uint(appointment["ID"].(float64)))
	}

	// Move the second appointment onto the first one's time: 409.
	resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/appointments/%d", appointmentIDs[1]), patientToken, fiber.Map{
		"appointmentDate": slots[0].StartTime.Format(time.RFC3339),
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Rescheduling onto its own time is a no-op success.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/appointments/%d", appointmentIDs[1]), patientToken, fiber.Map{
		"appointmentDate": slots[1].StartTime.Format(time.RFC3339),
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Doctor completes the first appointment.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/appointments/%d", appointmentIDs[0]), doctorToken, fiber.Map{
		"status": "COMPLETED",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Terminal states reject further doctor updates.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/appointments/%d", appointmentIDs[0]), doctorToken, fiber.Map{
		"status": "CANCELLED",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Unknown status strings are rejected.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/appointments/%d", appointmentIDs[1]), doctorToken, fiber.Map{
		"status": "DONE",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPrescriptionUpsert(t *testing.T) {
	app := setupApp(t)
	doctor := seedDoctor(t, "doc@example.com")
	patient := seedPatient(t, "pat@example.com")
	doctorToken := makeToken(t, doctor.UserID, models.RoleDoctor)

	appointment := models.Appointment{
		DoctorID:        doctor.ID,
		PatientID:       patient.ID,
		AppointmentDate: time.Now().Add(time.Hour),
		Status:          models.StatusUpcoming,
	}
	require.NoError(t, db.DB.Create(&appointment).Error)

	path := fmt.Sprintf("/doctor/appointments/%d/prescription", appointment.ID)
	resp, _ := doJSON(t, app, "POST", path, doctorToken, fiber.Map{
		"diagnosis": "flu",
		"medicines": "rest",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", path, doctorToken, fiber.Map{
		"diagnosis": "influenza",
		"medicines": "oseltamivir",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.DB.Model(&models.Prescription{}).Where("appointment_id = ?", appointment.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var stored models.Prescription
	require.NoError(t, db.DB.Where("appointment_id = ?", appointment.ID).First(&stored).Error)
	assert.Equal(t, "influenza", stored.Diagnosis)
}

func TestExpiredSlotsHiddenFromPatients(t *testing.T) {
	app := setupApp(t)
	doctor := seedDoctor(t, "doc@example.com")
	patient := seedPatient(t, "pat@example.com")
	patientToken := makeToken(t, patient.UserID, models.RolePatient)

	// Seed a slot that has already ended; the read path sweep must hide it.
	past := time.Now().Add(-2 * time.Hour)
	slot := models.DoctorSlot{
		DoctorID:  doctor.ID,
		StartTime: past,
		EndTime:   past.Add(30 * time.Minute),
		Duration:  30,
		Status:    models.SlotAvailable,
	}
	require.NoError(t, db.DB.Create(&slot).Error)

	resp, body := doJSON(t, app, "GET", fmt.Sprintf("/doctors/%d/slots", doctor.ID), patientToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["slots"], 0)

	var stored models.DoctorSlot
	require.NoError(t, db.DB.First(&stored, slot.ID).Error)
	assert.Equal(t, models.SlotExpired, stored.Status)
}
