package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/arnold/goalboards-api/internal/database"
	"github.com/arnold/goalboards-api/internal/handlers"
	"github.com/arnold/goalboards-api/internal/notify"
	"github.com/arnold/goalboards-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testAPI struct {
	t   *testing.T
	app *fiber.App
	svc *services.Service
	tg  *notify.Recorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zerolog.Nop()
	db, err := database.Connect(filepath.Join(t.TempDir(), "api.db"), log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	tg := &notify.Recorder{}
	svc := services.New(db, log, services.WithTelegram(tg))
	h := handlers.New(svc, log, testSecret, time.Hour)
	return &testAPI{t: t, app: NewApp(h, testSecret, false), svc: svc, tg: tg}
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (a *testAPI) register(username string) string {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":       username,
		"password":       "password123",
		"passwordRepeat": "password123",
	})
	require.Equal(a.t, http.StatusCreated, status, body)
	return body["token"].(string)
}

func (a *testAPI) create(path, token string, body interface{}) string {
	a.t.Helper()
	status, out := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, status, out)
	return out["id"].(string)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	status, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("alice")

	status, body := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = api.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password")

	status, body = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob", "password": "password123", "passwordRepeat": "different1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "password_repeat")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t)

	status, _ := api.do(http.MethodGet, "/api/boards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(http.MethodGet, "/api/boards", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestBoardPermissionsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")
	bob := api.register("bob")
	carol := api.register("carol")
	mallory := api.register("mallory")

	boardID := api.create("/api/boards", alice, map[string]string{"title": "Home"})

	status, body := api.do(http.MethodPut, "/api/boards/"+boardID, alice, map[string]interface{}{
		"participants": []map[string]string{
			{"username": "bob", "role": "editor"},
			{"username": "carol", "role": "viewer"},
		},
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["participants"], 3)

	categoryID := api.create("/api/categories", bob, map[string]string{"board": boardID, "title": "Chores"})

	status, body = api.do(http.MethodPost, "/api/categories", carol, map[string]string{"board": boardID, "title": "Garden"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "must be owner or editor", body["error"])

	status, _ = api.do(http.MethodGet, "/api/boards/"+boardID, mallory, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = api.do(http.MethodGet, "/api/categories?board="+boardID, carol, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	goalID := api.create("/api/goals", bob, map[string]interface{}{
		"category": categoryID,
		"title":    "Dishes",
		"priority": "high",
		"dueDate":  "2026-02-01",
	})

	status, body = api.do(http.MethodGet, "/api/goals/"+goalID, carol, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "high", body["priority"])
	assert.Equal(t, "to_do", body["status"])

	status, _ = api.do(http.MethodDelete, "/api/goals/"+goalID, carol, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodDelete, "/api/categories/"+categoryID, bob, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = api.do(http.MethodGet, "/api/goals/"+goalID, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "archived", body["status"])

	status, _ = api.do(http.MethodGet, "/api/categories/"+categoryID, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGoalReassignmentOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")

	home := api.create("/api/boards", alice, map[string]string{"title": "Home"})
	work := api.create("/api/boards", alice, map[string]string{"title": "Work"})
	chores := api.create("/api/categories", alice, map[string]string{"board": home, "title": "Chores"})
	meetings := api.create("/api/categories", alice, map[string]string{"board": work, "title": "Meetings"})
	goal := api.create("/api/goals", alice, map[string]string{"category": chores, "title": "Dishes"})

	status, body := api.do(http.MethodPut, "/api/goals/"+goal, alice, map[string]string{"category": meetings})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "category")

	status, body = api.do(http.MethodGet, "/api/goals?category="+chores, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])
}

func TestBoardDeleteOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")
	board := api.create("/api/boards", alice, map[string]string{"title": "Home"})
	chores := api.create("/api/categories", alice, map[string]string{"board": board, "title": "Chores"})
	goal := api.create("/api/goals", alice, map[string]string{"category": chores, "title": "Dishes"})

	status, _ := api.do(http.MethodDelete, "/api/boards/"+board, alice, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body := api.do(http.MethodGet, "/api/boards", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["count"])

	status, body = api.do(http.MethodGet, "/api/goals/"+goal, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "archived", body["status"])

	status, body = api.do(http.MethodPost, "/api/categories", alice, map[string]string{"board": board, "title": "Again"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "board")
}

func TestVerifyOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")

	status, body := api.do(http.MethodPatch, "/api/bot/verify", alice, map[string]string{"verificationCode": "unknown"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "verification_code")
	assert.Empty(t, api.tg.Messages())

	tg, err := api.svc.RegisterChat(context.Background(), 55, 9, "alice_tg")
	require.NoError(t, err)

	status, body = api.do(http.MethodPatch, "/api/bot/verify", alice, map[string]string{"verificationCode": tg.VerificationCode})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotNil(t, body["userId"])
	require.Len(t, api.tg.Messages(), 1)
	assert.Equal(t, "55", api.tg.Messages()[0].Ref)
}

func TestNotificationsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")
	bob := api.register("bob")
	board := api.create("/api/boards", alice, map[string]string{"title": "Home"})

	status, _ := api.do(http.MethodPut, "/api/boards/"+board, alice, map[string]interface{}{
		"participants": []map[string]string{{"username": "bob", "role": "viewer"}},
	})
	require.Equal(t, http.StatusOK, status)

	status, body := api.do(http.MethodGet, "/api/notifications", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["unread"])

	status, body = api.do(http.MethodPost, "/api/notifications/read-all", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["updated"])
}

func TestMalformedInputIsAFieldError(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")
	home := api.create("/api/boards", alice, map[string]string{"title": "Home"})
	chores := api.create("/api/categories", alice, map[string]string{"board": home, "title": "Chores"})

	status, body := api.do(http.MethodPost, "/api/goals", alice, map[string]string{
		"category": chores, "title": "Dishes", "priority": "urgent",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "priority")

	status, body = api.do(http.MethodPost, "/api/goals", alice, map[string]string{
		"category": chores, "title": "Dishes", "dueDate": "tomorrow",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "due_date")

	status, body = api.do(http.MethodGet, "/api/goals?status=later&due_date_from=soon", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "status")
	assert.Contains(t, body["errors"], "due_date_from")

	status, body = api.do(http.MethodGet, "/api/comments?goal=nope", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "goal")

	status, body = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "password")
}
