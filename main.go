package main

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/medsihealth/medsi/cron"
	"github.com/medsihealth/medsi/db"
	"github.com/medsihealth/medsi/redis"
	"github.com/medsihealth/medsi/routes"
)

func main() {
	app := fiber.New()
	db.Init()

	if os.Getenv("REDIS_ADDR") != "" {
		redis.InitRedis()
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.SetupAuthRoutes(app)
	routes.SetupSlotRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupDoctorRoutes(app)
	routes.SetupPatientRoutes(app)
	routes.SetupAdminRoutes(app)

	cron.StartCronJobs()

	app.Listen(":8000")
}
