package routers

import (
	"errors"

	"internlab/config"
	healthControllers "internlab/controllers/health"
	"internlab/logger"
	"internlab/middleware"
	"internlab/routers/adminRoutes"
	"internlab/routers/authRoutes"
	"internlab/routers/certificateRoutes"
	"internlab/routers/enrollmentRoutes"
	"internlab/routers/programRoutes"
	"internlab/routers/progressRoutes"
	"internlab/routers/resourceRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the HTTP application with every route mounted
func NewApp() *fiber.App {
	cfg := config.AppConfig

	app := fiber.New(fiber.Config{
		AppName:      "InternLab",
		ErrorHandler: errorHandler,

		// c.IP() reads the first valid address of ProxyHeader when one is configured
		ProxyHeader:             cfg.ProxyHeader,
		EnableIPValidation:      true,
		EnableTrustedProxyCheck: len(cfg.TrustedProxies) > 0,
		TrustedProxies:          cfg.TrustedProxies,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS", // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization",        // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	if cfg.AppEnv != "test" {
		app.Use(fiberLogger.New(fiberLogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/health", healthControllers.Health)

	api := app.Group("/api")
	authRoutes.SetupAuthRoutes(api)
	programRoutes.SetupProgramRoutes(api)
	enrollmentRoutes.SetupEnrollmentRoutes(api)
	progressRoutes.SetupProgressRoutes(api)
	certificateRoutes.SetupCertificateRoutes(api)
	resourceRoutes.SetupResourceRoutes(api)
	adminRoutes.SetupAdminRoutes(api)

	return app
}

// errorHandler keeps the response envelope for errors raised outside the controllers
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	if code >= fiber.StatusInternalServerError {
		logger.Log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}
