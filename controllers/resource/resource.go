package resourceController

import (
	"errors"
	"strings"

	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"
	resourceValidator "internlab/validators/resource"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ListResources(c *fiber.Ctx) error {
	query := database.Database.Db.
		Preload("CreatedBy", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Order("created_at DESC, id DESC")
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	var resources []models.Resource
	if err := query.Find(&resources).Error; err != nil {
		logger.Log.Error("list resources failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch resources!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resources fetched.", resources)
}

func CreateResource(c *fiber.Ctx) error {
	userID, _, _ := middleware.CurrentUser(c)
	reqData, ok := c.Locals("validatedResource").(*resourceValidator.CreateResourceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	resource := models.Resource{
		Title:       reqData.Title,
		URL:         reqData.URL,
		Description: reqData.Description,
		Category:    reqData.Category,
		CreatedByID: userID,
	}
	if err := database.Database.Db.Create(&resource).Error; err != nil {
		logger.Log.Error("create resource failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create resource!", nil)
	}
	utils.InvalidateStats(c.Context())
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Resource created successfully!", resource)
}

func DeleteResource(c *fiber.Ctx) error {
	resourceID := validators.ID(c, "id")
	db := database.Database.Db

	var resource models.Resource
	if err := db.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
		}
		logger.Log.Error("delete resource: lookup failed", "resourceId", resourceID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete resource!", nil)
	}
	if err := db.Delete(&resource).Error; err != nil {
		logger.Log.Error("delete resource failed", "resourceId", resourceID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete resource!", nil)
	}
	utils.InvalidateStats(c.Context())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource deleted successfully!", nil)
}
