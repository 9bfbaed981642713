package enrollmentRoutes

import (
	enrollmentControllers "internlab/controllers/enrollment"
	"internlab/middleware"
	"internlab/models"
	"internlab/validators"
	enrollmentValidators "internlab/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(api fiber.Router) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	enrollmentGroup := api.Group("/enrollments", middleware.JWTMiddleware)
	enrollmentGroup.Post("/", enrollmentValidators.Enroll(), enrollmentControllers.Enroll)
	enrollmentGroup.Get("/my", enrollmentControllers.MyEnrollments)
	enrollmentGroup.Get("/", adminOnly, validators.Pagination(), enrollmentValidators.List(), enrollmentControllers.ListEnrollments)
	enrollmentGroup.Put("/:id/extend", adminOnly, validators.ParamID("id", "Enrollment ID"), enrollmentValidators.Extend(), enrollmentControllers.ExtendEnrollment)
}
