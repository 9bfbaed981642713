package resourceRoutes

import (
	resourceControllers "internlab/controllers/resource"
	"internlab/middleware"
	"internlab/models"
	"internlab/validators"
	resourceValidators "internlab/validators/resource"

	"github.com/gofiber/fiber/v2"
)

func SetupResourceRoutes(api fiber.Router) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	resourceGroup := api.Group("/resources", middleware.JWTMiddleware)
	resourceGroup.Get("/", resourceControllers.ListResources)
	resourceGroup.Post("/", adminOnly, resourceValidators.CreateResource(), resourceControllers.CreateResource)
	resourceGroup.Delete("/:id", adminOnly, validators.ParamID("id", "Resource ID"), resourceControllers.DeleteResource)
}
