package adminRoutes

import (
	adminControllers "internlab/controllers/admin"
	"internlab/middleware"
	"internlab/models"
	"internlab/validators"
	adminValidators "internlab/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(api fiber.Router) {
	adminGroup := api.Group("/admin", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin))

	adminGroup.Get("/interns", validators.Pagination(), adminControllers.ListInterns)
	// registered before /interns/:id so "export" is not read as an id
	adminGroup.Get("/interns/export", adminControllers.ExportInterns)
	adminGroup.Get("/interns/:id", validators.ParamID("id", "Intern ID"), adminControllers.GetIntern)
	adminGroup.Post("/users", adminValidators.CreateUser(), adminControllers.CreateUser)
	adminGroup.Get("/stats", adminControllers.DashboardStats)
}
