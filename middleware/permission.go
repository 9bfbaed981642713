package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that lets through only the listed roles.
// It must run after JWTMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		_, role, ok := CurrentUser(c)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}
		if _, ok := allowed[role]; !ok {
			if role == "" {
				role = "None"
			}
			return JsonResponse(c, fiber.StatusForbidden, false,
				fmt.Sprintf("Role (%s) is not allowed to access this resource", role), nil)
		}
		return c.Next()
	}
}
