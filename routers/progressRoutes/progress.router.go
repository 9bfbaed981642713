package progressRoutes

import (
	progressControllers "internlab/controllers/progress"
	"internlab/middleware"
	"internlab/models"
	"internlab/validators"
	progressValidators "internlab/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(api fiber.Router) {
	taskID := validators.ParamID("taskId", "Task ID")

	progressGroup := api.Group("/progress", middleware.JWTMiddleware)
	progressGroup.Get("/stats", middleware.RequireRoles(models.RoleAdmin), progressControllers.ProgressStats)
	progressGroup.Get("/enrollment/:enrollmentId", validators.ParamID("enrollmentId", "Enrollment ID"), progressControllers.GetEnrollmentProgress)
	progressGroup.Post("/:taskId/start", taskID, progressControllers.StartTask)
	progressGroup.Post("/:taskId/complete", taskID, progressValidators.Complete(), progressControllers.CompleteTask)
	progressGroup.Put("/:id/grade", middleware.RequireRoles(models.RoleAdmin, models.RoleMentor),
		validators.ParamID("id", "Progress ID"), progressValidators.Grade(), progressControllers.GradeProgress)
}
