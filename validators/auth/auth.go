package authValidator

import (
	"strings"

	"internlab/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	College     *string `json:"college"`
	Duration    *int    `json:"duration" validate:"omitempty,min=1"`
	Interests   *string `json:"interests"`
	InviteToken string  `json:"inviteToken"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.InviteToken = strings.TrimSpace(r.InviteToken)
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	CnfPassword     string `json:"cnfPassword" validate:"required,eqfield=NewPassword"`
}

type InviteRequest struct {
	ProgramID uint `json:"programId" validate:"required"`
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// ChangePassword validator middleware
func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedChangePassword", reqData)
		return c.Next()
	}
}

// CreateInvite validator middleware
func CreateInvite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(InviteRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedInvite", reqData)
		return c.Next()
	}
}
