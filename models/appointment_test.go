package models

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
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
	require.NoError(t, db.AutoMigrate(&Appointment{}))
	return db
}

func TestAppointmentDefaultsToUpcoming(t *testing.T) {
	db := newTestDB(t)
	appointment := Appointment{DoctorID: 1, PatientID: 1, AppointmentDate: time.Now()}
	require.NoError(t, db.Create(&appointment).Error)
	assert.Equal(t, StatusUpcoming, appointment.Status)
}

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusUpcoming, StatusCompleted, true},
		{StatusUpcoming, StatusCancelled, true},
		{StatusUpcoming, StatusUpcoming, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusUpcoming, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusUpcoming, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			db := newTestDB(t)
			appointment := Appointment{DoctorID: 1, PatientID: 1, AppointmentDate: time.Now(), Status: tc.from}
			require.NoError(t, db.Create(&appointment).Error)

			err := appointment.UpdateStatus(db, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				var stored Appointment
				require.NoError(t, db.First(&stored, appointment.ID).Error)
				assert.Equal(t, tc.to, stored.Status)
			} else {
				require.Error(t, err)
				var stored Appointment
				require.NoError(t, db.First(&stored, appointment.ID).Error)
				assert.Equal(t, tc.from, stored.Status, "failed transition must not persist")
			}
		})
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	for _, valid := range []string{"UPCOMING", "COMPLETED", "CANCELLED"} {
		_, ok := ParseAppointmentStatus(valid)
		assert.True(t, ok, valid)
	}
	for _, invalid := range []string{"", "upcoming", "DONE", "PENDING"} {
		_, ok := ParseAppointmentStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"ADMIN", "DOCTOR", "PATIENT"} {
		_, ok := ParseRole(valid)
		assert.True(t, ok, valid)
	}
	for _, invalid := range []string{"", "doctor", "Patient", "NURSE"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}
