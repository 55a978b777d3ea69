package patient

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
)

// fromContext resolves the patient profile behind the authenticated user.
func fromContext(c *fiber.Ctx) (*models.Patient, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}
	var patient models.Patient
	if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Patient profile not found")
	}
	return &patient, nil
}

func respondFiberError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
}
