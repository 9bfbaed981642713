package taskValidator

import (
	"strings"
	"time"

	"internlab/middleware"
	"internlab/utils"
	"internlab/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	Type        string  `json:"type" validate:"required,oneof=VIDEO READING QUIZ"`
	ContentURL  string  `json:"contentUrl" validate:"omitempty,url"`
	Mandatory   *bool   `json:"mandatory"`
	Deadline    *string `json:"deadline"`
	OrderIndex  *int    `json:"orderIndex" validate:"omitempty,min=0"`

	DeadlineAt *time.Time `json:"-"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Type        *string `json:"type" validate:"omitempty,oneof=VIDEO READING QUIZ"`
	ContentURL  *string `json:"contentUrl" validate:"omitempty,url"`
	Mandatory   *bool   `json:"mandatory"`
	Deadline    *string `json:"deadline"`
	OrderIndex  *int    `json:"orderIndex" validate:"omitempty,min=0"`

	DeadlineAt *time.Time `json:"-"`
}

// CreateTask validator middleware
func CreateTask() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateTaskRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Type = strings.ToUpper(strings.TrimSpace(reqData.Type))

		errors := validators.ValidateStruct(reqData)
		if reqData.Deadline != nil && *reqData.Deadline != "" {
			deadline, err := utils.ParseDate(*reqData.Deadline)
			if err != nil {
				errors["deadline"] = "Invalid deadline!"
			}
			reqData.DeadlineAt = &deadline
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTask", reqData)
		return c.Next()
	}
}

// UpdateTask validator middleware
func UpdateTask() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateTaskRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Title != nil {
			title := strings.TrimSpace(*reqData.Title)
			reqData.Title = &title
		}
		if reqData.Type != nil {
			taskType := strings.ToUpper(strings.TrimSpace(*reqData.Type))
			reqData.Type = &taskType
		}

		errors := validators.ValidateStruct(reqData)
		if reqData.Deadline != nil && *reqData.Deadline != "" {
			deadline, err := utils.ParseDate(*reqData.Deadline)
			if err != nil {
				errors["deadline"] = "Invalid deadline!"
			}
			reqData.DeadlineAt = &deadline
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTaskUpdate", reqData)
		return c.Next()
	}
}
