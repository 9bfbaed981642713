package enrollmentController

import (
	"errors"
	"time"

	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"
	enrollmentValidator "internlab/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollmentView adds the completion percentage to an enrollment
type EnrollmentView struct {
	models.Enrollment
	Percentage int `json:"percentage"`
}

func Enroll(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedEnroll").(*enrollmentValidator.EnrollRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	enrollment, err := utils.RedeemInvite(db, userID, reqData.InviteToken, time.Now())
	switch {
	case errors.Is(err, utils.ErrInviteInvalid):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid invite code", nil)
	case errors.Is(err, utils.ErrInviteUsed):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This invite code has already been used", nil)
	case errors.Is(err, utils.ErrInviteExpired):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This invite code has expired", nil)
	case errors.Is(err, utils.ErrProgramNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found", nil)
	case errors.Is(err, utils.ErrAlreadyEnrolled), database.IsUniqueViolation(err):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are already enrolled in this program", nil)
	case err != nil:
		logger.Log.Error("enroll failed", "userId", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	if err := db.Preload("Program").First(enrollment, enrollment.ID).Error; err != nil {
		logger.Log.Warn("enroll: reload failed", "enrollmentId", enrollment.ID, "error", err)
	}

	utils.InvalidateStats(c.Context())
	utils.AnnounceEnrollment(db, enrollment.ID)
	logger.Log.Info("user enrolled", "userId", userID, "programId", enrollment.ProgramID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

func MyEnrollments(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.
		Where("user_id = ?", userID).
		Preload("Program").
		Preload("Progress").
		Preload("Progress.Task").
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		logger.Log.Error("my enrollments failed", "userId", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	views := make([]EnrollmentView, len(enrollments))
	for i, e := range enrollments {
		counts := utils.CountProgress(e.Progress)
		views[i] = EnrollmentView{Enrollment: e, Percentage: utils.Percentage(counts.Completed, counts.Total)}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched.", views)
}

func ListEnrollments(c *fiber.Ctx) error {
	page := validators.GetPagination(c)
	filters, ok := c.Locals("validatedEnrollmentList").(*enrollmentValidator.ListQuery)
	if !ok {
		filters = &enrollmentValidator.ListQuery{}
	}

	db := database.Database.Db
	query := db.Model(&models.Enrollment{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ProgramID > 0 {
		query = query.Where("program_id = ?", filters.ProgramID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Log.Error("count enrollments failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var enrollments []models.Enrollment
	if err := query.
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email", "role") }).
		Preload("Program", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Order("enrolled_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&enrollments).Error; err != nil {
		logger.Log.Error("list enrollments failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched.", fiber.Map{
		"enrollments": enrollments,
		"pagination":  validators.PageMeta(page, total),
	})
}

func ExtendEnrollment(c *fiber.Ctx) error {
	enrollmentID := validators.ID(c, "id")
	reqData, ok := c.Locals("validatedExtend").(*enrollmentValidator.ExtendRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var enrollment models.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		logger.Log.Error("extend: lookup failed", "enrollmentId", enrollmentID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to extend enrollment!", nil)
	}

	enrollment.ExpiresAt = enrollment.ExpiresAt.AddDate(0, 0, reqData.Days)
	enrollment.ExtensionDays += reqData.Days
	if enrollment.Status != models.EnrollmentCompleted {
		enrollment.Status = models.EnrollmentExtended
	}
	// the new expiry gets its own reminder
	enrollment.ReminderSentAt = nil

	if err := db.Model(&enrollment).Updates(map[string]interface{}{
		"expires_at":       enrollment.ExpiresAt,
		"extension_days":   enrollment.ExtensionDays,
		"status":           enrollment.Status,
		"reminder_sent_at": nil,
	}).Error; err != nil {
		logger.Log.Error("extend enrollment failed", "enrollmentId", enrollmentID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to extend enrollment!", nil)
	}

	utils.InvalidateStats(c.Context())
	logger.Log.Info("enrollment extended", "enrollmentId", enrollment.ID, "days", reqData.Days)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment extended successfully!", enrollment)
}
