// Package validators holds the request checks shared by the per-area validator handlers.
package validators

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"internlab/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json name so errors match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs the validate tags of req and returns field -> message. The map is empty when req is valid.
func ValidateStruct(req interface{}) map[string]string {
	errors := make(map[string]string)
	err := validate.Struct(req)
	if err == nil {
		return errors
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request!"
		return errors
	}
	for _, fe := range fieldErrors {
		if _, exists := errors[fe.Field()]; !exists {
			errors[fe.Field()] = message(fe)
		}
	}
	return errors
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "email":
		return "Invalid email!"
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("%s must match %s!", field, lowerFirst(fe.Param()))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid!", field)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Normalizer is implemented by requests that trim or case-fold their fields before validation
type Normalizer interface {
	Normalize()
}

// ParseBody decodes the JSON body into req and validates it. It writes the error response itself and
// reports false when the handler must stop.
func ParseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	if errors := ValidateStruct(req); len(errors) > 0 {
		return false, middleware.ValidationErrorResponse(c, errors)
	}
	return true, nil
}

// ParamID validates a positive integer path parameter and stores it in c.Locals under the same name
func ParamID(param, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(param))
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}
		c.Locals(param, uint(id))
		return c.Next()
	}
}

// ID returns a path id stored by ParamID
func ID(c *fiber.Ctx, param string) uint {
	id, _ := c.Locals(param).(uint)
	return id
}

// PageQuery is the page/limit pair of list endpoints
type PageQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination validates optional page and limit query parameters. Missing values default to page 1
// and a limit of 20.
func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		page := PageQuery{Page: 1, Limit: defaultPageLimit}
		if reqData.Page != nil {
			if *reqData.Page < 1 {
				errors["page"] = "Page must be greater than 0!"
			}
			page.Page = *reqData.Page
		}
		if reqData.Limit != nil {
			if *reqData.Limit < 1 || *reqData.Limit > maxPageLimit {
				errors["limit"] = fmt.Sprintf("Limit must be between 1 and %d!", maxPageLimit)
			}
			page.Limit = *reqData.Limit
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("pagination", page)
		return c.Next()
	}
}

// GetPagination returns the query stored by Pagination
func GetPagination(c *fiber.Ctx) PageQuery {
	if page, ok := c.Locals("pagination").(PageQuery); ok {
		return page
	}
	return PageQuery{Page: 1, Limit: defaultPageLimit}
}

// PageMeta is the pagination block of list responses
func PageMeta(page PageQuery, total int64) fiber.Map {
	pages := (total + int64(page.Limit) - 1) / int64(page.Limit)
	return fiber.Map{
		"total": total,
		"page":  page.Page,
		"limit": page.Limit,
		"pages": pages,
	}
}
