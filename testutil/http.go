package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the JSON shape every handler responds with.
type Envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode unmarshals the envelope data into out.
func (e Envelope) Decode(tb testing.TB, out interface{}) {
	tb.Helper()
	if err := json.Unmarshal(e.Data, out); err != nil {
		tb.Fatalf("decode data %s: %v", e.Data, err)
	}
}

// Call sends body as JSON to app. An empty token sends the request anonymously.
func Call(tb testing.TB, app *fiber.App, method, path, token string, body interface{}) (int, Envelope) {
	tb.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			tb.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		tb.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		tb.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp.StatusCode, env
}
