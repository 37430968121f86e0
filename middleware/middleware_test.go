package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"courseplatform/apperr"
	course "courseplatform/models/course"
	"courseplatform/policy"
	"courseplatform/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Field("title", "Title is required!"), fiber.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", apperr.ErrValidationFailed), fiber.StatusUnprocessableEntity},
		{fmt.Errorf("course 3: %w", apperr.ErrNotFound), fiber.StatusNotFound},
		{gorm.ErrRecordNotFound, fiber.StatusNotFound},
		{fmt.Errorf("podcast: %w", apperr.ErrUnknownContentType), fiber.StatusBadRequest},
		{fmt.Errorf("course: %w", apperr.ErrDuplicateResource), fiber.StatusConflict},
		{fmt.Errorf("attempts: %w", apperr.ErrPermissionDenied), fiber.StatusForbidden},
		{errors.New("disk full"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func TestErrorResponseHidesInternalErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error { return ErrorResponse(c, errors.New("password=hunter2")) })
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fmt.Errorf("create: %w", apperr.Field("url", "Url must be a valid URL!")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	env := decode(t, resp.Body)
	assert.False(t, env.Status)
	assert.Equal(t, "Failed to process your request!", env.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/invalid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	env = decode(t, resp.Body)
	assert.JSONEq(t, `{"url":"Url must be a valid URL!"}`, string(env.Data))
}

func TestJWTMiddleware(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	u := testutil.SeedUser(t, db, "user@example.com", true)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		r := CurrentRequester(c)
		return c.JSON(fiber.Map{"id": r.UserID, "staff": r.Staff})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := GenerateJWT(u.ID, u.Name, u.Email, false)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		ID    uint `json:"id"`
		Staff bool `json:"staff"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, u.ID, body.ID)
	assert.True(t, body.Staff, "staff flag comes from the database")
}

func TestJWTMiddlewareRejectsBlockedUser(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	u := testutil.SeedUser(t, db, "user@example.com", false)
	until := time.Now().Add(time.Minute)
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{"is_blocked": true, "blocked_until": until}).Error)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	token, err := GenerateJWT(u.ID, u.Name, u.Email, false)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCheckAccess(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", false)
	stranger := testutil.SeedUser(t, db, "stranger@example.com", false)
	c := testutil.SeedCourse(t, db, owner, "Go")

	load := func(*fiber.Ctx) (policy.Resource, error) { return course.LoadCourse(db, c.ID) }
	missing := func(*fiber.Ctx) (policy.Resource, error) {
		return nil, fmt.Errorf("course 99: %w", apperr.ErrNotFound)
	}

	app := fiber.New()
	app.Use(OptionalJWTMiddleware)
	handler := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": Resource(c).(*course.Course).ID})
	}
	app.Get("/course", CheckAccess(policy.OwnerOrStaff, load), handler)
	app.Post("/course/read", CheckAccessAs(policy.OwnerOrStaffOrReadOnly, policy.Read, load), handler)
	app.Get("/missing", CheckAccess(policy.OwnerOrStaff, missing), handler)

	call := func(method, path string, who uint) int {
		req := httptest.NewRequest(method, path, nil)
		if who != 0 {
			token, err := GenerateJWT(who, "", "", false)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, call("GET", "/course", 0))
	assert.Equal(t, fiber.StatusForbidden, call("GET", "/course", stranger.ID))
	assert.Equal(t, fiber.StatusOK, call("GET", "/course", owner.ID))
	assert.Equal(t, fiber.StatusOK, call("POST", "/course/read", stranger.ID))
	assert.Equal(t, fiber.StatusNotFound, call("GET", "/missing", owner.ID))
}
