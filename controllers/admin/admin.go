package adminController

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"internlab/config"
	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"
	adminValidator "internlab/validators/admin"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EnrollmentDetail is an enrollment of the intern detail page
type EnrollmentDetail struct {
	models.Enrollment
	Percentage int `json:"percentage"`
}

func selectProgramSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title", "domain", "duration_days")
}

// sortByTaskOrder orders progress rows the way the program lists its tasks
func sortByTaskOrder(rows []models.UserProgress) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Task, rows[j].Task
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return a.ID < b.ID
	})
}

func ListInterns(c *fiber.Ctx) error {
	page := validators.GetPagination(c)
	db := database.Database.Db

	var total int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleIntern).Count(&total).Error; err != nil {
		logger.Log.Error("count interns failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch interns!", nil)
	}

	var interns []models.User
	if err := db.Where("role = ?", models.RoleIntern).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "user_id", "program_id", "status", "enrolled_at", "expires_at").Order("enrolled_at DESC")
		}).
		Preload("Enrollments.Program", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&interns).Error; err != nil {
		logger.Log.Error("list interns failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch interns!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Interns fetched.", fiber.Map{
		"interns":    interns,
		"pagination": validators.PageMeta(page, total),
	})
}

func ExportInterns(c *fiber.Ctx) error {
	var interns []models.User
	if err := database.Database.Db.Where("role = ?", models.RoleIntern).
		Preload("Enrollments").
		Preload("Enrollments.Program", selectProgramSummary).
		Preload("Enrollments.Progress").
		Order("created_at DESC, id DESC").
		Find(&interns).Error; err != nil {
		logger.Log.Error("export interns: query failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export interns!", nil)
	}

	workbook, err := utils.BuildInternWorkbook(interns)
	if err != nil {
		logger.Log.Error("export interns: workbook failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export interns!", nil)
	}

	filename := fmt.Sprintf("interns-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(workbook)
}

func GetIntern(c *fiber.Ctx) error {
	internID := validators.ID(c, "id")
	db := database.Database.Db

	var intern models.User
	err := db.Where("role = ?", models.RoleIntern).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB { return db.Order("enrolled_at DESC") }).
		Preload("Enrollments.Program", selectProgramSummary).
		Preload("Enrollments.Progress").
		Preload("Enrollments.Progress.Task").
		First(&intern, internID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Intern not found!", nil)
		}
		logger.Log.Error("get intern failed", "internId", internID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch intern!", nil)
	}

	enrollments := make([]EnrollmentDetail, len(intern.Enrollments))
	for i, e := range intern.Enrollments {
		sortByTaskOrder(e.Progress)
		counts := utils.CountProgress(e.Progress)
		enrollments[i] = EnrollmentDetail{Enrollment: e, Percentage: utils.Percentage(counts.Completed, counts.Total)}
	}
	intern.Enrollments = nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Intern fetched.", fiber.Map{
		"intern":      intern,
		"enrollments": enrollments,
	})
}

func CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*adminValidator.CreateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&existing).Error; err != nil {
		logger.Log.Error("create user: email lookup failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("create user: hashing failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	user := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     reqData.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		logger.Log.Error("create user failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	if user.Role == models.RoleIntern {
		utils.InvalidateStats(c.Context())
	}
	logger.Log.Info("user created by admin", "userId", user.ID, "role", user.Role)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully!", user)
}

func DashboardStats(c *fiber.Ctx) error {
	stats, cached, err := utils.CachedDashboardStats(c.Context(), database.Database.Db, time.Now())
	if err != nil {
		logger.Log.Error("dashboard stats failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}
	if cached {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched.", stats)
}
