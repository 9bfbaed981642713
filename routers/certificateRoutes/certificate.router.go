package certificateRoutes

import (
	certificateControllers "internlab/controllers/certificate"
	"internlab/middleware"
	"internlab/validators"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(api fiber.Router) {
	certificateGroup := api.Group("/certificates", middleware.JWTMiddleware)
	certificateGroup.Post("/generate/:enrollmentId", validators.ParamID("enrollmentId", "Enrollment ID"), certificateControllers.GenerateCertificate)
}
