package validators

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN MENTOR"`
	Days     int    `json:"days" validate:"omitempty,min=1"`
	Password string `json:"password"`
	Confirm  string `json:"confirm" validate:"eqfield=Password"`
}

func TestValidateStruct(t *testing.T) {
	errors := ValidateStruct(&sampleRequest{Name: "A", Email: "nope", Role: "GUEST", Days: -1, Password: "x", Confirm: "y"})
	assert.Equal(t, map[string]string{
		"name":    "name must be at least 2 characters long!",
		"email":   "Invalid email!",
		"role":    "role must be one of: ADMIN, MENTOR!",
		"days":    "days must be at least 1!",
		"confirm": "confirm must match password!",
	}, errors)

	assert.Empty(t, ValidateStruct(&sampleRequest{Name: "Asha", Email: "asha@example.com"}))
	assert.Equal(t, "name is required!", ValidateStruct(&sampleRequest{Email: "a@b.co"})["name"])
}

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", ParamID("id", "Item ID"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": ID(c, "id")})
	})

	status, body := decode(t, app, "/items/42")
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(42), body["id"])

	status, body = decode(t, app, "/items/abc")
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid Item ID!", body["message"])

	status, _ = decode(t, app, "/items/0")
	assert.Equal(t, 400, status)
}

func TestPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/list", Pagination(), func(c *fiber.Ctx) error {
		page := GetPagination(c)
		return c.JSON(fiber.Map{"page": page.Page, "limit": page.Limit, "offset": page.Offset()})
	})

	status, body := decode(t, app, "/list")
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(20), body["limit"])

	_, body = decode(t, app, "/list?page=3&limit=10")
	assert.Equal(t, float64(20), body["offset"])

	status, body = decode(t, app, "/list?page=0&limit=500")
	assert.Equal(t, 422, status)
	errors := body["data"].(map[string]interface{})
	assert.Contains(t, errors, "page")
	assert.Contains(t, errors, "limit")
}

func TestPageMeta(t *testing.T) {
	meta := PageMeta(PageQuery{Page: 2, Limit: 10}, 21)
	assert.Equal(t, int64(3), meta["pages"])
	assert.Equal(t, int64(21), meta["total"])
}

type trimmedRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

func (r *trimmedRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func TestParseBodyNormalizesBeforeValidating(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		req := new(trimmedRequest)
		if ok, err := ParseBody(c, req); !ok {
			return err
		}
		return c.JSON(fiber.Map{"name": req.Name})
	})
	post := func(body string) (int, map[string]interface{}) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}

	status, body := post(`{"name":"    "}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["data"], "name")

	status, body = post(`{"name":"  Asha  "}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Asha", body["name"])
}
