package resourceValidator

import (
	"strings"

	"internlab/middleware"
	"internlab/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateResourceRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	URL         string  `json:"url" validate:"required,url"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,max=64"`
}

// CreateResource validator middleware
func CreateResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateResourceRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.URL = strings.TrimSpace(reqData.URL)
		if errors := validators.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResource", reqData)
		return c.Next()
	}
}
