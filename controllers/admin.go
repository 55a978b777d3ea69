package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/models"
)

// AdminProfile is a placeholder for the admin role.
func AdminProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "User not authenticated"})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	return c.JSON(fiber.Map{
		"message": "Welcome " + user.Email + "! You are logged in as an " + string(user.Role) + ".",
	})
}

// AdminListUsers lists all users without passwords.
func AdminListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := db.DB.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch users"})
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(fiber.Map{"users": users})
}
