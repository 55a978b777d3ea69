package doctor

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetPatients lists patients followed by the doctor, with name search and
// pagination.
func GetPatients(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	search := c.Query("search")
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := db.DB.Model(&models.Patient{}).
		Joins("JOIN doctor_patients ON doctor_patients.patient_id = patients.id").
		Joins("JOIN users ON users.id = patients.user_id").
		Where("doctor_patients.doctor_id = ?", doctor.ID)
	if search != "" {
		query = query.Where("users.name LIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var patients []models.Patient
	err = query.Preload("User").
		Offset((page - 1) * limit).Limit(limit).
		Find(&patients).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch patients",
			Error:   err.Error(),
		})
	}

	for i := range patients {
		patients[i].User.Password = ""
	}

	return c.JSON(fiber.Map{
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
		"data": patients,
	})
}

// GetPatientDetails returns a linked patient with their appointments,
// prescriptions and reports.
func GetPatientDetails(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var link models.DoctorPatient
	if err := db.DB.Where("doctor_id = ? AND patient_id = ?", doctor.ID, c.Params("id")).
		First(&link).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Patient is not linked to you"})
	}

	var patient models.Patient
	err = db.DB.Preload("User").
		Preload("Appointments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("appointment_date desc")
		}).
		Preload("Appointments.Doctor.User").
		Preload("Prescriptions.Doctor.User").
		Preload("Reports").
		First(&patient, c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient not found"})
	}

	patient.User.Password = ""
	return c.JSON(fiber.Map{"patient": patient})
}

type patientInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DOB          string `json:"dob"`
	Gender       string `json:"gender"`
	BloodGroup   string `json:"bloodGroup"`
	MedicalNotes string `json:"medicalNotes"`
}

// CreatePatientAndLink registers a patient account and links it to the
// doctor in one go.
func CreatePatientAndLink(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var input patientInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if input.Name == "" || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name and email are required"})
	}

	var existing models.User
	if db.DB.Where("email = ?", input.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "User already exists with this email"})
	}

	password := input.Password
	if password == "" {
		password = "changeme"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to hash password"})
	}

	var patient models.Patient
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:     input.Name,
			Email:    input.Email,
			Password: string(hashed),
			Role:     models.RolePatient,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		patient = models.Patient{
			UserID:       user.ID,
			Gender:       input.Gender,
			BloodGroup:   input.BloodGroup,
			MedicalNotes: input.MedicalNotes,
		}
		if input.DOB != "" {
			if dob, err := time.Parse(time.RFC3339, input.DOB); err == nil {
				patient.DOB = &dob
			}
		}
		if err := tx.Create(&patient).Error; err != nil {
			return err
		}

		link := models.DoctorPatient{DoctorID: doctor.ID, PatientID: patient.ID}
		return tx.Create(&link).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create patient",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Patient created", "patient": patient})
}

// LinkPatient links an existing patient, looked up by email, to the doctor.
func LinkPatient(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email is required"})
	}

	var user models.User
	if err := db.DB.Where("email = ? AND role = ?", input.Email, models.RolePatient).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient not found"})
	}
	var patient models.Patient
	if err := db.DB.Where("user_id = ?", user.ID).First(&patient).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient profile not found"})
	}

	link := models.DoctorPatient{DoctorID: doctor.ID, PatientID: patient.ID}
	if err := db.DB.Where("doctor_id = ? AND patient_id = ?", doctor.ID, patient.ID).
		FirstOrCreate(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to link patient",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Patient linked", "link": link})
}

// UpdatePatient edits a linked patient's profile fields.
func UpdatePatient(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var link models.DoctorPatient
	if err := db.DB.Where("doctor_id = ? AND patient_id = ?", doctor.ID, c.Params("id")).
		First(&link).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Patient is not linked to you"})
	}

	var patient models.Patient
	if err := db.DB.First(&patient, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	var input patientInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}

	updates := map[string]interface{}{}
	if input.Gender != "" {
		updates["gender"] = input.Gender
	}
	if input.BloodGroup != "" {
		updates["blood_group"] = input.BloodGroup
	}
	if input.MedicalNotes != "" {
		updates["medical_notes"] = input.MedicalNotes
	}
	if input.DOB != "" {
		if dob, err := time.Parse(time.RFC3339, input.DOB); err == nil {
			updates["dob"] = dob
		}
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&patient).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update patient"})
		}
	}
	if input.Name != "" {
		if err := db.DB.Model(&models.User{}).Where("id = ?", patient.UserID).
			Update("name", input.Name).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update patient"})
		}
	}

	db.DB.Preload("User").First(&patient, patient.ID)
	patient.User.Password = ""
	return c.JSON(fiber.Map{"message": "Profile updated", "patient": patient})
}

// UnlinkPatient removes the doctor-patient link. The patient record and
// their history stay untouched.
func UnlinkPatient(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	result := db.DB.Unscoped().
		Where("doctor_id = ? AND patient_id = ?", doctor.ID, c.Params("id")).
		Delete(&models.DoctorPatient{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to unlink patient",
			Error:   result.Error.Error(),
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient is not linked to you"})
	}

	return c.JSON(fiber.Map{"message": "Patient unlinked"})
}
