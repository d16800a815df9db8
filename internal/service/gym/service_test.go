package gym_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/cache"
	"github.com/gymbro/gymbro-api/internal/config"
	"github.com/gymbro/gymbro-api/internal/db"
	"github.com/gymbro/gymbro-api/internal/server"
	"github.com/gymbro/gymbro-api/internal/service/gym"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	gyms := []db.Gym{
		{ID: 1, Name: "FitPark Central", Location: "Paris 1er"},
		{ID: 2, Name: "IronHouse", Location: "Lyon 3e"},
	}
	require.NoError(t, dbase.Create(&gyms).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger)
	return server.NewApp(cfg, appCtx, gym.NewRegistrar(appCtx)), dbase
}

func get(t *testing.T, fiberApp *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

func TestListGyms(t *testing.T) {
	fiberApp, _ := setupApp(t)

	resp, raw := get(t, fiberApp, "/api/gyms")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gyms []map[string]any
	require.NoError(t, json.Unmarshal(raw, &gyms))
	require.Len(t, gyms, 2)
	// ordered by name
	assert.Equal(t, "FitPark Central", gyms[0]["name"])
	assert.Equal(t, "IronHouse", gyms[1]["name"])
}

// TestListGymsCacheFirst verifies the second listing is served from
// Redis: rows deleted from the DB still appear until the TTL expires.
func TestListGymsCacheFirst(t *testing.T) {
	fiberApp, dbase := setupApp(t)

	resp, _ := get(t, fiberApp, "/api/gyms")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, dbase.Exec("DELETE FROM gyms").Error)

	resp, raw := get(t, fiberApp, "/api/gyms")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gyms []map[string]any
	require.NoError(t, json.Unmarshal(raw, &gyms))
	assert.Len(t, gyms, 2)
}

func TestGetGym(t *testing.T) {
	fiberApp, _ := setupApp(t)

	resp, raw := get(t, fiberApp, "/api/gyms/2")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var g map[string]any
	require.NoError(t, json.Unmarshal(raw, &g))
	assert.Equal(t, "IronHouse", g["name"])
	assert.Equal(t, "Lyon 3e", g["location"])
}

func TestGetGymNotFound(t *testing.T) {
	fiberApp, _ := setupApp(t)

	resp, _ := get(t, fiberApp, "/api/gyms/42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetGymInvalidID(t *testing.T) {
	fiberApp, _ := setupApp(t)

	resp, _ := get(t, fiberApp, "/api/gyms/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
