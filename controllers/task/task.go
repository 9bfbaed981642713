package taskController

import (
	"errors"
	"time"

	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"
	taskValidator "internlab/validators/task"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func programExists(db *gorm.DB, programID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Program{}).Where("id = ?", programID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func ListTasks(c *fiber.Ctx) error {
	programID := validators.ID(c, "programId")
	db := database.Database.Db

	exists, err := programExists(db, programID)
	if err != nil {
		logger.Log.Error("list tasks: program lookup failed", "programId", programID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tasks!", nil)
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	var tasks []models.Task
	if err := db.Where("program_id = ?", programID).Order("order_index ASC, id ASC").Find(&tasks).Error; err != nil {
		logger.Log.Error("list tasks failed", "programId", programID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tasks!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tasks fetched.", tasks)
}

func CreateTask(c *fiber.Ctx) error {
	userID, _, _ := middleware.CurrentUser(c)
	programID := validators.ID(c, "programId")
	reqData, ok := c.Locals("validatedTask").(*taskValidator.CreateTaskRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	task := models.Task{
		ProgramID:   programID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Type:        reqData.Type,
		ContentURL:  reqData.ContentURL,
		Mandatory:   true,
		Deadline:    reqData.DeadlineAt,
		CreatedByID: userID,
	}
	if reqData.Mandatory != nil {
		task.Mandatory = *reqData.Mandatory
	}
	if reqData.OrderIndex != nil {
		task.OrderIndex = *reqData.OrderIndex
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		exists, err := programExists(tx, programID)
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		// existing interns get the new task on their board
		return utils.SeedProgressForTask(tx, task, time.Now())
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
		}
		logger.Log.Error("create task failed", "programId", programID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create task!", nil)
	}

	utils.InvalidateStats(c.Context())
	logger.Log.Info("task created", "taskId", task.ID, "programId", programID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Task created successfully!", task)
}

func UpdateTask(c *fiber.Ctx) error {
	taskID := validators.ID(c, "id")
	reqData, ok := c.Locals("validatedTaskUpdate").(*taskValidator.UpdateTaskRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Task not found!", nil)
		}
		logger.Log.Error("update task: lookup failed", "taskId", taskID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update task!", nil)
	}

	if reqData.Title != nil {
		task.Title = *reqData.Title
	}
	if reqData.Description != nil {
		task.Description = *reqData.Description
	}
	if reqData.Type != nil {
		task.Type = *reqData.Type
	}
	if reqData.ContentURL != nil {
		task.ContentURL = *reqData.ContentURL
	}
	if reqData.Mandatory != nil {
		task.Mandatory = *reqData.Mandatory
	}
	if reqData.Deadline != nil {
		// an empty deadline clears it
		task.Deadline = reqData.DeadlineAt
	}
	if reqData.OrderIndex != nil {
		task.OrderIndex = *reqData.OrderIndex
	}

	if err := db.Model(&task).
		Select("title", "description", "type", "content_url", "mandatory", "deadline", "order_index").
		Updates(&task).Error; err != nil {
		logger.Log.Error("update task failed", "taskId", taskID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update task!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task updated successfully!", task)
}

func DeleteTask(c *fiber.Ctx) error {
	taskID := validators.ID(c, "id")
	db := database.Database.Db

	var completed []uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}
		var err error
		if completed, err = utils.RemoveTaskProgress(tx, task.ID, time.Now()); err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Task not found!", nil)
		}
		logger.Log.Error("delete task failed", "taskId", taskID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete task!", nil)
	}

	for _, enrollmentID := range completed {
		utils.AnnounceCompletion(db, enrollmentID)
	}
	utils.InvalidateStats(c.Context())
	logger.Log.Info("task deleted", "taskId", taskID, "completedEnrollments", len(completed))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task deleted successfully!", nil)
}
