package progressController

import (
	"errors"
	"time"

	"internlab/database"
	"internlab/logger"
	"internlab/middleware"
	"internlab/models"
	"internlab/utils"
	"internlab/validators"
	progressValidator "internlab/validators/progress"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errNotEnrolled = errors.New("not enrolled in program")

// TaskProgress is one task of an enrollment with the intern's row, if any
type TaskProgress struct {
	models.Task
	Status   string               `json:"status"`
	Progress *models.UserProgress `json:"progress"`
}

// loadTaskAndEnrollment finds the task and the caller's enrollment in its program
func loadTaskAndEnrollment(tx *gorm.DB, userID, taskID uint) (models.Task, models.Enrollment, error) {
	var task models.Task
	var enrollment models.Enrollment
	if err := tx.First(&task, taskID).Error; err != nil {
		return task, enrollment, err
	}
	if err := tx.Where("user_id = ? AND program_id = ?", userID, task.ProgramID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task, enrollment, errNotEnrolled
		}
		return task, enrollment, err
	}
	return task, enrollment, nil
}

// findOrCreateProgress returns the row for the task, creating a NOT_STARTED one when it is missing
func findOrCreateProgress(tx *gorm.DB, enrollmentID, taskID uint) (models.UserProgress, error) {
	progress := models.UserProgress{EnrollmentID: enrollmentID, TaskID: taskID}
	err := tx.Where("enrollment_id = ? AND task_id = ?", enrollmentID, taskID).
		Attrs(models.UserProgress{Status: models.ProgressNotStarted}).
		FirstOrCreate(&progress).Error
	return progress, err
}

func progressError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Task not found!", nil)
	case errors.Is(err, errNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this program!", nil)
	}
	logger.Log.Error(action+" failed", "error", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
}

func StartTask(c *fiber.Ctx) error {
	userID, _, _ := middleware.CurrentUser(c)
	taskID := validators.ID(c, "taskId")

	var progress models.UserProgress
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		task, enrollment, err := loadTaskAndEnrollment(tx, userID, taskID)
		if err != nil {
			return err
		}
		if progress, err = findOrCreateProgress(tx, enrollment.ID, task.ID); err != nil {
			return err
		}
		if progress.Status != models.ProgressNotStarted {
			return nil
		}

		now := time.Now()
		progress.Status = models.ProgressInProgress
		progress.StartedAt = &now
		return tx.Model(&progress).Updates(map[string]interface{}{
			"status":     progress.Status,
			"started_at": now,
		}).Error
	})
	if err != nil {
		return progressError(c, err, "start task")
	}

	utils.InvalidateStats(c.Context())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task started.", progress)
}

func CompleteTask(c *fiber.Ctx) error {
	userID, _, _ := middleware.CurrentUser(c)
	taskID := validators.ID(c, "taskId")
	reqData, ok := c.Locals("validatedComplete").(*progressValidator.CompleteRequest)
	if !ok {
		reqData = &progressValidator.CompleteRequest{}
	}

	var (
		progress      models.UserProgress
		enrollment    models.Enrollment
		before, after string
		completed     int64
		totalTasks    int64
	)
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		var err error
		if task, enrollment, err = loadTaskAndEnrollment(tx, userID, taskID); err != nil {
			return err
		}
		if progress, err = findOrCreateProgress(tx, enrollment.ID, task.ID); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.ProgressCompleted,
			"completed_at": now,
		}
		progress.Status = models.ProgressCompleted
		progress.CompletedAt = &now
		if progress.StartedAt == nil {
			updates["started_at"] = now
			progress.StartedAt = &now
		}
		// keep the earlier submission when none is sent
		if reqData.SubmissionURL != nil {
			updates["submission_url"] = *reqData.SubmissionURL
			progress.SubmissionURL = reqData.SubmissionURL
		}
		if err := tx.Model(&progress).Updates(updates).Error; err != nil {
			return err
		}

		if before, after, err = utils.RecalculateEnrollment(tx, enrollment.ID, now); err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("program_id = ?", task.ProgramID).Count(&totalTasks).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserProgress{}).
			Where("enrollment_id = ? AND status = ?", enrollment.ID, models.ProgressCompleted).
			Count(&completed).Error
	})
	if err != nil {
		return progressError(c, err, "complete task")
	}

	utils.InvalidateStats(c.Context())
	if before != models.EnrollmentCompleted && after == models.EnrollmentCompleted {
		logger.Log.Info("enrollment completed", "enrollmentId", enrollment.ID, "userId", userID)
		utils.AnnounceCompletion(database.Database.Db, enrollment.ID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task completed.", fiber.Map{
		"progress":     progress,
		"allCompleted": after == models.EnrollmentCompleted,
		"percentage":   utils.Percentage(int(completed), int(totalTasks)),
	})
}

func GetEnrollmentProgress(c *fiber.Ctx) error {
	userID, role, _ := middleware.CurrentUser(c)
	enrollmentID := validators.ID(c, "enrollmentId")
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Preload("Progress").First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		logger.Log.Error("enrollment progress: lookup failed", "enrollmentId", enrollmentID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	if role == models.RoleIntern && enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var tasks []models.Task
	if err := db.Where("program_id = ?", enrollment.ProgramID).Order("order_index ASC, id ASC").Find(&tasks).Error; err != nil {
		logger.Log.Error("enrollment progress: tasks failed", "enrollmentId", enrollmentID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	byTask := make(map[uint]*models.UserProgress, len(enrollment.Progress))
	for i := range enrollment.Progress {
		byTask[enrollment.Progress[i].TaskID] = &enrollment.Progress[i]
	}

	completed := 0
	items := make([]TaskProgress, len(tasks))
	for i, task := range tasks {
		item := TaskProgress{Task: task, Status: models.ProgressNotStarted}
		if row, ok := byTask[task.ID]; ok {
			item.Status = row.Status
			item.Progress = row
			if row.Status == models.ProgressCompleted {
				completed++
			}
		}
		items[i] = item
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched.", fiber.Map{
		"enrollmentId":   enrollment.ID,
		"status":         enrollment.Status,
		"percentage":     utils.Percentage(completed, len(tasks)),
		"completedCount": completed,
		"totalCount":     len(tasks),
		"tasks":          items,
	})
}

func GradeProgress(c *fiber.Ctx) error {
	graderID, _, _ := middleware.CurrentUser(c)
	progressID := validators.ID(c, "id")
	reqData, ok := c.Locals("validatedGrade").(*progressValidator.GradeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var progress models.UserProgress
	if err := db.First(&progress, progressID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found!", nil)
		}
		logger.Log.Error("grade: lookup failed", "progressId", progressID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	now := time.Now()
	progress.Grade = &reqData.Grade
	progress.Feedback = reqData.Feedback
	progress.GradedByID = &graderID
	progress.GradedAt = &now
	if err := db.Model(&progress).Updates(map[string]interface{}{
		"grade":        reqData.Grade,
		"feedback":     reqData.Feedback,
		"graded_by_id": graderID,
		"graded_at":    now,
	}).Error; err != nil {
		logger.Log.Error("grade failed", "progressId", progressID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	utils.InvalidateStats(c.Context())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded.", progress)
}

func ProgressStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalInterns, totalEnrollments, completedEnrollments, pendingGrades int64
	queries := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.User{}).Where("role = ?", models.RoleIntern), &totalInterns},
		{db.Model(&models.Enrollment{}), &totalEnrollments},
		{db.Model(&models.Enrollment{}).Where("status = ?", models.EnrollmentCompleted), &completedEnrollments},
		{db.Model(&models.UserProgress{}).
			Where("status = ? AND submission_url IS NOT NULL AND submission_url <> '' AND grade IS NULL", models.ProgressCompleted),
			&pendingGrades},
	}
	for _, q := range queries {
		if err := q.query.Count(q.dest).Error; err != nil {
			logger.Log.Error("progress stats failed", "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress stats fetched.", fiber.Map{
		"totalInterns":         totalInterns,
		"totalEnrollments":     totalEnrollments,
		"completedEnrollments": completedEnrollments,
		"completionRate":       utils.Percentage(int(completedEnrollments), int(totalEnrollments)),
		"pendingGrades":        pendingGrades,
	})
}
