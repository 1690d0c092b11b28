package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/database"
	"github.com/example/accounts/internal/models"
	"github.com/example/accounts/internal/routes"
	"github.com/example/accounts/internal/store"
	"github.com/example/accounts/internal/utils"
	"github.com/example/accounts/internal/validation"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Accounts Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg)

	if err := seedAdmin(cfg); err != nil {
		log.Printf("admin seed failed: %v", err)
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// seedAdmin creates the first admin account from config when none exists.
func seedAdmin(cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	users := store.NewGormUserStore(database.DB())

	count, err := users.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        validation.NormalizeEmail(cfg.AdminEmail),
		PasswordHash: hash,
		IsVerified:   true,
		IsAdmin:      true,
	}

	if err := users.Create(admin); err != nil {
		return err
	}

	log.Printf("Seeded admin account %s", admin.Email)
	return nil
}
