package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/handlers"
	"github.com/example/accounts/internal/middleware"
	"github.com/example/accounts/internal/services"
	"github.com/example/accounts/internal/store"
)

// Register wires up all HTTP routes and their guard chains.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	users := store.NewGormUserStore(db)
	codes := store.NewGormOTPStore(db, cfg.OTPTTL)
	mail := services.NewMailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)

	authService := services.NewAuthService(users, codes, mail, cfg)

	authHandler := handlers.NewAuthHandler(authService)
	resetHandler := handlers.NewPasswordResetHandler(authService)
	profileHandler := handlers.NewProfileHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/forgot-password", resetHandler.ForgotPassword)
	auth.Post("/reset-password", resetHandler.ResetPassword)

	protected := api.Group("", middleware.Authenticate(cfg, users))
	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Put("/users/:id", adminHandler.EditUser)

	admin := protected.Group("/users", middleware.RequireAdmin())
	admin.Get("/", adminHandler.ListUsers)
	admin.Post("/", adminHandler.AddUser)
	admin.Delete("/:id", adminHandler.DeleteUser)
}
