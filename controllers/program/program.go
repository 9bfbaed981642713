package programController

import (
	"errors"
	"time"

	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"
	programValidator "internlab/validators/program"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errHasEnrollments = errors.New("program has enrollments")

// ProgramSummary is a program with its list counters
type ProgramSummary struct {
	models.Program
	EnrollmentCount int64 `json:"enrollmentCount"`
	TaskCount       int64 `json:"taskCount"`
}

type programCount struct {
	ProgramID uint
	Count     int64
}

func countByProgram(model interface{}) (map[uint]int64, error) {
	var rows []programCount
	if err := database.Database.Db.Model(model).
		Select("program_id, COUNT(*) AS count").
		Group("program_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ProgramID] = r.Count
	}
	return counts, nil
}

func ListPrograms(c *fiber.Ctx) error {
	var programs []models.Program
	if err := database.Database.Db.Order("created_at DESC").Find(&programs).Error; err != nil {
		logger.Log.Error("list programs failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch programs!", nil)
	}

	enrollmentCounts, err := countByProgram(&models.Enrollment{})
	if err != nil {
		logger.Log.Error("count enrollments failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch programs!", nil)
	}
	taskCounts, err := countByProgram(&models.Task{})
	if err != nil {
		logger.Log.Error("count tasks failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch programs!", nil)
	}

	summaries := make([]ProgramSummary, len(programs))
	for i, p := range programs {
		summaries[i] = ProgramSummary{
			Program:         p,
			EnrollmentCount: enrollmentCounts[p.ID],
			TaskCount:       taskCounts[p.ID],
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Programs fetched.", summaries)
}

func GetProgram(c *fiber.Ctx) error {
	programID := validators.ID(c, "id")

	var program models.Program
	err := database.Database.Db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC, id ASC") }).
		Preload("CreatedBy", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email", "role") }).
		First(&program, programID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
		}
		logger.Log.Error("get program failed", "programId", programID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch program!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program fetched.", program)
}

func CreateProgram(c *fiber.Ctx) error {
	userID, _, _ := middleware.CurrentUser(c)
	reqData, ok := c.Locals("validatedProgram").(*programValidator.CreateProgramRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	program := models.Program{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Domain:       reqData.Domain,
		DurationDays: reqData.DurationDays,
		StartDate:    datatypes.Date(reqData.StartAt),
		EndDate:      datatypes.Date(reqData.EndAt),
		CreatedByID:  userID,
	}
	if err := database.Database.Db.Create(&program).Error; err != nil {
		logger.Log.Error("create program failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create program!", nil)
	}

	utils.InvalidateStats(c.Context())
	logger.Log.Info("program created", "programId", program.ID, "createdBy", userID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Program created successfully!", program)
}

func UpdateProgram(c *fiber.Ctx) error {
	programID := validators.ID(c, "id")
	reqData, ok := c.Locals("validatedProgramUpdate").(*programValidator.UpdateProgramRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var program models.Program
	if err := db.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
		}
		logger.Log.Error("update program: lookup failed", "programId", programID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update program!", nil)
	}

	if reqData.Title != nil {
		program.Title = *reqData.Title
	}
	if reqData.Description != nil {
		program.Description = *reqData.Description
	}
	if reqData.Domain != nil {
		program.Domain = *reqData.Domain
	}
	if reqData.DurationDays != nil {
		program.DurationDays = *reqData.DurationDays
	}
	if reqData.StartAt != nil {
		program.StartDate = datatypes.Date(*reqData.StartAt)
	}
	if reqData.EndAt != nil {
		program.EndDate = datatypes.Date(*reqData.EndAt)
	}
	if time.Time(program.EndDate).Before(time.Time(program.StartDate)) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"endDate": "End date must be on or after start date!",
		})
	}

	if err := db.Model(&program).
		Select("title", "description", "domain", "duration_days", "start_date", "end_date").
		Updates(&program).Error; err != nil {
		logger.Log.Error("update program failed", "programId", programID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update program!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program updated successfully!", program)
}

func DeleteProgram(c *fiber.Ctx) error {
	programID := validators.ID(c, "id")

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var program models.Program
		if err := tx.First(&program, programID).Error; err != nil {
			return err
		}

		var enrollments int64
		if err := tx.Model(&models.Enrollment{}).Where("program_id = ?", program.ID).Count(&enrollments).Error; err != nil {
			return err
		}
		if enrollments > 0 {
			return errHasEnrollments
		}

		if err := tx.Where("program_id = ?", program.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("program_id = ?", program.ID).Delete(&models.InviteCode{}).Error; err != nil {
			return err
		}
		return tx.Delete(&program).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	case errors.Is(err, errHasEnrollments):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Cannot delete a program that has enrollments!", nil)
	case err != nil:
		logger.Log.Error("delete program failed", "programId", programID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete program!", nil)
	}

	utils.InvalidateStats(c.Context())
	logger.Log.Info("program deleted", "programId", programID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program deleted successfully!", nil)
}
