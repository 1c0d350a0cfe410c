package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", Protected(secret), func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c).String())
	})
	return app
}

func get(t *testing.T, app *fiber.App, header string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken("s3cret", time.Hour, id, "alice")
	require.NoError(t, err)

	resp := get(t, newApp("s3cret"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRejects(t *testing.T) {
	app := newApp("s3cret")
	expired, err := GenerateToken("s3cret", -time.Minute, uuid.New(), "alice")
	require.NoError(t, err)
	forged, err := GenerateToken("other", time.Hour, uuid.New(), "alice")
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":    "",
		"not bearer": "Token abc",
		"expired":    "Bearer " + expired,
		"forged":     "Bearer " + forged,
	} {
		t.Run(name, func(t *testing.T) {
			resp := get(t, app, header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestGetUserIDOutsideProtected(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Equal(t, uuid.Nil, GetUserID(c))
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
}
