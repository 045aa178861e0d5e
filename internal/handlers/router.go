package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/cv-screener/internal/repositories"
)

type RouterConfig struct {
	AppName   string
	BodyLimit int
	AccessLog bool
	UserRepo  repositories.UserRepository
	Auth      *AuthHandler
	CV        *CVHandler
	Upload    *UploadHandler
}

// NewApp wires the sandbox routes. Paths match with or without the
// trailing slash the client sends.
func NewApp(cfg RouterConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    cfg.BodyLimit,
		UnescapePath: true,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := api.Group("/auth")
	auth.Post("/authenticate", cfg.Auth.HandleAuthenticate)
	auth.Post("/register", cfg.Auth.HandleRegister)
	auth.Post("/check-username", cfg.Auth.HandleCheckUsername)
	auth.Post("/check-email", cfg.Auth.HandleCheckEmail)

	cv := api.Group("/cv", TokenAuth(cfg.UserRepo))
	cv.Get("/details/:requirementId", cfg.CV.HandleGetDetails)
	cv.Get("/requirements", cfg.CV.HandleListRequirements)
	cv.Get("/requirements/:id", cfg.CV.HandleGetRequirement)
	cv.Delete("/requirements/:id/delete", cfg.CV.HandleDeleteRequirement)
	cv.Get("/resume/*", cfg.CV.HandleDownloadResume)
	cv.Get("/summary", cfg.CV.HandleGetSummary)
	cv.Get("/statistics/:id", cfg.CV.HandleGetStatistics)
	cv.Get("/supported-types", cfg.CV.HandleSupportedTypes)
	cv.Post("/upload", cfg.Upload.HandleUpload)
	cv.Post("/process-uploads", cfg.Upload.HandleProcessUploads)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
