package programValidator

import (
	"strings"
	"time"

	"internlab/middleware"
	"internlab/utils"
	"internlab/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateProgramRequest struct {
	Title        string `json:"title" validate:"required,min=2,max=255"`
	Description  string `json:"description"`
	Domain       string `json:"domain" validate:"max=128"`
	DurationDays int    `json:"durationDays" validate:"required,min=1"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`

	StartAt time.Time `json:"-"`
	EndAt   time.Time `json:"-"`
}

// UpdateProgramRequest only changes the fields that are present
type UpdateProgramRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=2,max=255"`
	Description  *string `json:"description"`
	Domain       *string `json:"domain" validate:"omitempty,max=128"`
	DurationDays *int    `json:"durationDays" validate:"omitempty,min=1"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`

	StartAt *time.Time `json:"-"`
	EndAt   *time.Time `json:"-"`
}

func (r *CreateProgramRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *UpdateProgramRequest) Normalize() {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
}

// CreateProgram validator middleware
func CreateProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateProgramRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}

		errors := make(map[string]string)
		start, err := utils.ParseDate(reqData.StartDate)
		if err != nil {
			errors["startDate"] = "Invalid start date!"
		}
		end, err := utils.ParseDate(reqData.EndDate)
		if err != nil {
			errors["endDate"] = "Invalid end date!"
		}
		if len(errors) == 0 && end.Before(start) {
			errors["endDate"] = "End date must be on or after start date!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.StartAt, reqData.EndAt = start, end
		c.Locals("validatedProgram", reqData)
		return c.Next()
	}
}

// UpdateProgram validator middleware. The date order of the merged program is checked by the controller.
func UpdateProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProgramRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}

		errors := make(map[string]string)
		if reqData.StartDate != nil {
			if start, err := utils.ParseDate(*reqData.StartDate); err != nil {
				errors["startDate"] = "Invalid start date!"
			} else {
				reqData.StartAt = &start
			}
		}
		if reqData.EndDate != nil {
			if end, err := utils.ParseDate(*reqData.EndDate); err != nil {
				errors["endDate"] = "Invalid end date!"
			} else {
				reqData.EndAt = &end
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgramUpdate", reqData)
		return c.Next()
	}
}
