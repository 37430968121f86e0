package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"courseplatform/middleware"
	"courseplatform/models"
	courseRoutes "courseplatform/routers/courseRoutes"
	userProfileRoutes "courseplatform/routers/userRoutes"
	"courseplatform/storage"
	"courseplatform/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t   *testing.T
	db  *gorm.DB
	app *fiber.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.DB(t)

	prev := storage.Default
	storage.Default = storage.NewLocal(cfg.UploadDir, "/uploads")
	t.Cleanup(func() { storage.Default = prev })

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupModuleRoutes(app)
	courseRoutes.SetupItemRoutes(app)
	courseRoutes.SetupContentRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	return &harness{t: t, db: db, app: app}
}

func (h *harness) token(u *models.User) string {
	h.t.Helper()
	token, err := middleware.GenerateJWT(u.ID, u.Name, u.Email, u.IsStaff)
	require.NoError(h.t, err)
	return token
}

func (h *harness) send(method, path string, as *models.User, contentType string, body io.Reader) (int, envelope) {
	h.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+h.token(as))
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)

	var env envelope
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// do sends body as JSON. A nil user sends the request anonymously.
func (h *harness) do(method, path string, as *models.User, body interface{}) (int, envelope) {
	h.t.Helper()
	if body == nil {
		return h.send(method, path, as, "", nil)
	}
	raw, err := json.Marshal(body)
	require.NoError(h.t, err)
	return h.send(method, path, as, fiber.MIMEApplicationJSON, bytes.NewReader(raw))
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
