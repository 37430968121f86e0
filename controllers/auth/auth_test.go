package authController_test

import (
	"fmt"
	"testing"
	"time"

	"courseplatform/middleware"
	"courseplatform/models"
	authRoutes "courseplatform/routers/authRoutes"
	"courseplatform/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	testutil.Config(t)
	db := testutil.DB(t)
	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app, db
}

func signup(t *testing.T, app *fiber.App, email string) {
	t.Helper()
	status, env := testutil.Call(t, app, "POST", "/auth/signup", "", fiber.Map{
		"name": "Ada", "email": email, "password": "correct horse",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
}

func TestSignup(t *testing.T) {
	app, db := setup(t)

	status, env := testutil.Call(t, app, "POST", "/auth/signup", "", fiber.Map{"name": "A", "email": "nope", "password": "short"})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	var fields map[string]string
	env.Decode(t, &fields)
	assert.Len(t, fields, 3)

	signup(t, app, "Ada@Example.com")

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.NotEqual(t, "correct horse", user.Password)
	assert.False(t, user.IsStaff)

	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)

	status, _ = testutil.Call(t, app, "POST", "/auth/signup", "", fiber.Map{
		"name": "Ada", "email": "ada@example.com", "password": "correct horse",
	})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestLogin(t *testing.T) {
	app, _ := setup(t)
	signup(t, app, "ada@example.com")

	status, env := testutil.Call(t, app, "POST", "/auth/login", "", fiber.Map{"email": "ada@example.com", "password": "correct horse"})
	require.Equal(t, fiber.StatusOK, status)
	var body struct {
		Token string `json:"token"`
	}
	env.Decode(t, &body)
	require.NotEmpty(t, body.Token)

	status, env = testutil.Call(t, app, "GET", "/auth/login/history", body.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var history struct {
		LoginTracking []models.LoginTracking `json:"loginTracking"`
		Pagination    struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	env.Decode(t, &history)
	assert.Equal(t, 1, history.Pagination.Total)
	assert.Len(t, history.LoginTracking, 1)

	status, _ = testutil.Call(t, app, "GET", "/auth/login/history", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginBlocksAfterFailures(t *testing.T) {
	app, db := setup(t)
	signup(t, app, "ada@example.com")

	for i := 0; i < 3; i++ {
		status, env := testutil.Call(t, app, "POST", "/auth/login", "", fiber.Map{"email": "ada@example.com", "password": "wrong password"})
		require.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "Invalid credentials!", env.Message)
	}

	status, env := testutil.Call(t, app, "POST", "/auth/login", "", fiber.Map{"email": "ada@example.com", "password": "correct horse"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Your account is temporarily blocked. Try again later.", env.Message)

	past := time.Now().Add(-time.Second)
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ada@example.com").Update("blocked_until", past).Error)

	status, _ = testutil.Call(t, app, "POST", "/auth/login", "", fiber.Map{"email": "ada@example.com", "password": "correct horse"})
	assert.Equal(t, fiber.StatusOK, status)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.False(t, user.IsBlocked)
	assert.Zero(t, user.FailedLoginAttempts)
}

func TestLoginUnknownEmail(t *testing.T) {
	app, _ := setup(t)
	status, _ := testutil.Call(t, app, "POST", "/auth/login", "", fiber.Map{"email": "ghost@example.com", "password": "whatever1"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginHistoryPagination(t *testing.T) {
	app, db := setup(t)
	u := testutil.SeedUser(t, db, "ada@example.com", false)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.LoginTracking{UserID: u.ID, IPAddress: fmt.Sprintf("10.0.0.%d", i), Timestamp: time.Now()}).Error)
	}
	token, err := middleware.GenerateJWT(u.ID, u.Name, u.Email, false)
	require.NoError(t, err)

	status, env := testutil.Call(t, app, "GET", "/auth/login/history?page=2&limit=4", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var history struct {
		LoginTracking []models.LoginTracking `json:"loginTracking"`
	}
	env.Decode(t, &history)
	assert.Len(t, history.LoginTracking, 1)
}
