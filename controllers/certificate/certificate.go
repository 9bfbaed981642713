package certificateController

import (
	"errors"
	"fmt"

	"internlab/config"
	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateURL builds the public verification link of a certificate
func CertificateURL(enrollmentID uint) string {
	return fmt.Sprintf("%s/%d-%s", config.AppConfig.CertificateBaseURL, enrollmentID, uuid.NewString())
}

func GenerateCertificate(c *fiber.Ctx) error {
	userID, role, _ := middleware.CurrentUser(c)
	enrollmentID := validators.ID(c, "enrollmentId")
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		logger.Log.Error("certificate: lookup failed", "enrollmentId", enrollmentID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	if role == models.RoleIntern && enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}
	if enrollment.Status != models.EnrollmentCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Complete all tasks before generating a certificate!", nil)
	}

	url := CertificateURL(enrollment.ID)
	if err := db.Model(&enrollment).Update("certificate_url", url).Error; err != nil {
		logger.Log.Error("certificate: saving url failed", "enrollmentId", enrollment.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	logger.Log.Info("certificate generated", "enrollmentId", enrollment.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate generated.", fiber.Map{
		"enrollmentId":   enrollment.ID,
		"certificateUrl": url,
	})
}
