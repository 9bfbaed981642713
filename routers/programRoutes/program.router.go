package programRoutes

import (
	programControllers "internlab/controllers/program"
	taskControllers "internlab/controllers/task"
	"internlab/middleware"
	"internlab/models"
	"internlab/validators"
	programValidators "internlab/validators/program"
	taskValidators "internlab/validators/task"

	"github.com/gofiber/fiber/v2"
)

func SetupProgramRoutes(api fiber.Router) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleMentor)
	programID := validators.ParamID("id", "Program ID")

	programGroup := api.Group("/programs", middleware.JWTMiddleware)
	programGroup.Get("/", programControllers.ListPrograms)
	programGroup.Get("/:id", programID, programControllers.GetProgram)
	programGroup.Post("/", adminOnly, programValidators.CreateProgram(), programControllers.CreateProgram)
	programGroup.Put("/:id", adminOnly, programID, programValidators.UpdateProgram(), programControllers.UpdateProgram)
	programGroup.Delete("/:id", adminOnly, programID, programControllers.DeleteProgram)

	taskProgramID := validators.ParamID("programId", "Program ID")
	programGroup.Get("/:programId/tasks", taskProgramID, taskControllers.ListTasks)
	programGroup.Post("/:programId/tasks", staff, taskProgramID, taskValidators.CreateTask(), taskControllers.CreateTask)

	taskID := validators.ParamID("id", "Task ID")
	taskGroup := api.Group("/tasks", middleware.JWTMiddleware, staff)
	taskGroup.Put("/:id", taskID, taskValidators.UpdateTask(), taskControllers.UpdateTask)
	taskGroup.Delete("/:id", taskID, taskControllers.DeleteTask)
}
