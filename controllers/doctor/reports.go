package doctor

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/utils"
)

// UploadReport stores a medical report for a linked patient. The file is
// sent either as multipart form data (uploaded to Cloudinary) or as a
// ready fileUrl field.
func UploadReport(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	patientID, err := strconv.ParseUint(c.FormValue("patientId", c.Query("patientId")), 10, 64)
	if err != nil || patientID == 0 {
		// JSON body fallback
		var input struct {
			PatientID   uint   `json:"patientId"`
			FileURL     string `json:"fileUrl"`
			FileType    string `json:"fileType"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&input); err != nil || input.PatientID == 0 || input.FileURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "patientId and file are required"})
		}
		return createReport(c, doctor.ID, input.PatientID, input.FileURL, input.FileType, input.Description)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fileURL := c.FormValue("fileUrl")
		if fileURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "patientId and file are required"})
		}
		return createReport(c, doctor.ID, uint(patientID), fileURL,
			c.FormValue("fileType"), c.FormValue("description"))
	}

	fileURL, err := utils.UploadReportFile(fileHeader)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload report",
			Error:   err.Error(),
		})
	}

	return createReport(c, doctor.ID, uint(patientID), fileURL,
		c.FormValue("fileType"), c.FormValue("description"))
}

func createReport(c *fiber.Ctx, doctorID, patientID uint, fileURL, fileType, description string) error {
	var patient models.Patient
	if err := db.DB.First(&patient, patientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Patient not found"})
	}

	report := models.Report{
		PatientID:   patientID,
		DoctorID:    doctorID,
		FileURL:     fileURL,
		FileType:    fileType,
		Description: description,
	}
	if err := db.DB.Create(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create report",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Report uploaded", "report": report})
}

// GetReports lists reports the doctor has uploaded.
func GetReports(c *fiber.Ctx) error {
	doctor, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var reports []models.Report
	err = db.DB.Where("doctor_id = ?", doctor.ID).
		Preload("Patient.User").
		Order("created_at desc").
		Find(&reports).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch reports",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"data": reports})
}
