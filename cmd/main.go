package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/campusvault/CampusVault/internal/config"
	"github.com/campusvault/CampusVault/internal/db"
	"github.com/campusvault/CampusVault/internal/handlers"
	"github.com/campusvault/CampusVault/internal/middleware"
	"github.com/campusvault/CampusVault/internal/registry"
	"github.com/campusvault/CampusVault/internal/services"
	"github.com/campusvault/CampusVault/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	cfg := config.Load()

	if cfg.CategoriesFile != "" {
		if err := registry.LoadOverrides(cfg.CategoriesFile); err != nil {
			log.Fatalf("Failed to load category overrides: %v", err)
		}
	}

	app := fiber.New()
	storage.InitMinio(cfg)
	services.InitMailer(cfg)

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Connect to MongoDB
	mongoDB := db.ConnectMongoDB(cfg.MongoURI, cfg.MongoDB)
	handlers.InitAdminHandler(mongoDB)

	// Auth Routes
	auth := app.Group("/auth")
	auth.Post("/register", handlers.RegisterHandler)
	auth.Post("/login", handlers.LoginHandler)
	auth.Post("/logout", handlers.LogoutHandler)
	auth.Post("/verify-email", handlers.VerifyEmailHandler)
	auth.Post("/forgot-password", handlers.ForgotPasswordHandler)
	auth.Post("/reset-password", handlers.ResetPasswordHandler)
	auth.Post("/forgot-password-2fa", handlers.ForgotPassword2FAHandler)
	auth.Post("/reset-password-2fa", handlers.ResetPassword2FAHandler)
	auth.Get("/me", middleware.AuthMiddleware, handlers.MeHandler)
	auth.Put("/profile", middleware.AuthMiddleware, handlers.UpdateProfileHandler)
	auth.Post("/token", middleware.AuthMiddleware, handlers.RefreshTokenHandler)
	auth.Post("/setup-2fa", middleware.AuthMiddleware, handlers.Setup2FAHandler)
	auth.Post("/verify-2fa", middleware.AuthMiddleware, handlers.Verify2FAHandler)
	auth.Post("/disable-2fa", middleware.AuthMiddleware, handlers.Disable2FAHandler)

	// Public registry lookup for upload forms
	app.Get("/api/categories", handlers.CategoriesHandler)

	// Repository Routes: JWT first, then the approval/profile gate
	files := app.Group("/api/files", middleware.AuthMiddleware, middleware.RepositoryGate)
	files.Get("/", handlers.ListFilesHandler)
	files.Post("/", handlers.UploadFileHandler)
	files.Get("/stats", handlers.StatsHandler)
	files.Get("/:id", handlers.GetFileHandler)
	files.Get("/:id/preview", handlers.PreviewFileHandler)
	files.Get("/:id/download", handlers.DownloadFileHandler)
	files.Post("/:id/like", handlers.LikeFileHandler)
	files.Put("/:id", handlers.UpdateFileHandler)
	files.Delete("/:id", handlers.DeleteFileHandler)

	// Admin Routes
	admin := app.Group("/admin", middleware.AdminMiddleware)
	admin.Get("/users", handlers.ListUsers)
	admin.Get("/files", handlers.ListAllFiles)
	admin.Get("/user/:userid", handlers.GetUserByID)
	admin.Put("/user/:userid/approve", handlers.ApproveUser)
	admin.Put("/file/:file_id/approve", handlers.ApproveFile)
	admin.Delete("/file/:file_id", handlers.AdminDeleteFile)

	// Background expiry sweep
	services.StartSweeper(context.Background(), time.Hour)

	// Start server
	log.Fatal(app.Listen(":" + cfg.Port))
}
