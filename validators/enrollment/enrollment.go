package enrollmentValidator

import (
	"strings"

	"internlab/middleware"
	"internlab/validators"

	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	InviteToken string `json:"inviteToken" validate:"required"`
}

type ExtendRequest struct {
	Days int `json:"days" validate:"required,min=1,max=365"`
}

type ListQuery struct {
	Status    string `query:"status" validate:"omitempty,oneof=ACTIVE EXTENDED COMPLETED"`
	ProgramID uint   `query:"programId"`
}

// Enroll validator middleware
func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.InviteToken = strings.TrimSpace(reqData.InviteToken)
		if errors := validators.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// Extend validator middleware
func Extend() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ExtendRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedExtend", reqData)
		return c.Next()
	}
}

// List validator middleware for the admin enrollment list filters
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		if errors := validators.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}
