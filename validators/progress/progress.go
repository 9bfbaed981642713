package progressValidator

import (
	"strings"

	"internlab/middleware"
	"internlab/validators"

	"github.com/gofiber/fiber/v2"
)

type CompleteRequest struct {
	SubmissionURL *string `json:"submissionUrl" validate:"omitempty,url"`
}

type GradeRequest struct {
	Grade    string  `json:"grade" validate:"required,max=32"`
	Feedback *string `json:"feedback"`
}

// Complete validator middleware. The body is optional.
func Complete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CompleteRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if reqData.SubmissionURL != nil && strings.TrimSpace(*reqData.SubmissionURL) == "" {
			reqData.SubmissionURL = nil
		}
		if errors := validators.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedComplete", reqData)
		return c.Next()
	}
}

// Grade validator middleware
func Grade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Grade = strings.TrimSpace(reqData.Grade)
		if errors := validators.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
