package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"seedtrace-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthApp(h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(h.Rdb)})
	app.Get("/reset", h.Reset)
	app.Get("/health/json", h.JSON)
	app.Get("/health/errors", h.Errors)
	return app
}

func TestHealthEndpoints_WithoutRedis(t *testing.T) {
	app := setupHealthApp(&Handlers{Rdb: nil, HealthAdminKey: "secret"})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var entries []interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Empty(t, entries)

	resp, err = app.Test(httptest.NewRequest("GET", "/reset?key=secret", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "issue", body["status"])
}

func TestReset_RequiresAdminKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := setupHealthApp(&Handlers{Rdb: rdb, HealthAdminKey: "secret"})

	resp, err := app.Test(httptest.NewRequest("GET", "/reset?key=wrong", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	mr.Set(middleware.KeyReqTotal, "10")
	resp, err = app.Test(httptest.NewRequest("GET", "/reset?key=secret", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, mr.Exists(middleware.KeyReqTotal))
}

func TestErrors_ReturnsLoggedEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := setupHealthApp(&Handlers{Rdb: rdb})

	entry, _ := json.Marshal(map[string]interface{}{"path": "/api/v1/lots", "error": "boom"})
	mr.Lpush(middleware.KeyErrorLog, string(entry))

	resp, err := app.Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var entries []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/lots", entries[0]["path"])
}
