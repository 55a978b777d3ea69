package patient

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
	"github.com/medsihealth/medsi/utils"
)

// GetPrescriptions lists the patient's prescriptions, newest first.
func GetPrescriptions(c *fiber.Ctx) error {
	patient, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	db.DB.Model(&models.Prescription{}).Where("patient_id = ?", patient.ID).Count(&total)

	var prescriptions []models.Prescription
	err = db.DB.Where("patient_id = ?", patient.ID).
		Preload("Doctor.User").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&prescriptions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch prescriptions",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"meta": fiber.Map{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
		"data": prescriptions,
	})
}

// GetReports lists the patient's reports, newest first.
func GetReports(c *fiber.Ctx) error {
	patient, err := fromContext(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var reports []models.Report
	err = db.DB.Where("patient_id = ?", patient.ID).
		Preload("Doctor.User").
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
