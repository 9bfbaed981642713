package authRoutes

import (
	authControllers "internlab/controllers/auth"
	"internlab/middleware"
	"internlab/models"
	"internlab/validators"
	authValidators "internlab/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router) {
	authGroup := api.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Get("/login/history", middleware.JWTMiddleware, validators.Pagination(), authControllers.LoginHistoryList)
	authGroup.Put("/change/password", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword)
	authGroup.Post("/invite", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), authValidators.CreateInvite(), authControllers.CreateInvite)
	authGroup.Get("/invites", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), authControllers.ListInvites)
}
