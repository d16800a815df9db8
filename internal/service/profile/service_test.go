package profile_test

import (
	"bytes"
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
	"github.com/gymbro/gymbro-api/internal/service/profile"
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

	gymID := uint64(1)
	require.NoError(t, dbase.Create(&db.Gym{ID: 1, Name: "IronHouse", Location: "Lyon 3e"}).Error)
	require.NoError(t, dbase.Create(&db.User{
		ID: 1, Name: "Alex", FamilyName: "Dupont", Age: 24, Type: db.TypeMassGain, GymID: &gymID,
	}).Error)
	require.NoError(t, dbase.Create(&[]db.ExerciseTag{
		{UserID: 1, Label: "Bench"}, {UserID: 1, Label: "Squat"},
	}).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger)
	return server.NewApp(cfg, appCtx, profile.NewRegistrar(appCtx)), dbase
}

func doJSON(t *testing.T, fiberApp *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestGetUser(t *testing.T) {
	fiberApp, _ := setupApp(t)

	resp, body := doJSON(t, fiberApp, http.MethodGet, "/api/users/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alex", body["name"])
	assert.Equal(t, "Dupont", body["family_name"])
	assert.Equal(t, "IronHouse", body["gym_name"])
	assert.Equal(t, []any{"Bench", "Squat"}, body["exos"])
}

func TestGetUserNotFound(t *testing.T) {
	fiberApp, _ := setupApp(t)

	resp, _ := doJSON(t, fiberApp, http.MethodGet, "/api/users/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReplaceUser(t *testing.T) {
	fiberApp, dbase := setupApp(t)

	resp, body := doJSON(t, fiberApp, http.MethodPut, "/api/users/1", fiber.Map{
		"name":        "Alexandre",
		"family_name": "Dupont",
		"age":         25,
		"type":        "strength",
		"description": "new bio",
		"exos":        []string{"Squat", "Bench", "Deadlift", "OHP"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var user db.User
	require.NoError(t, dbase.First(&user, 1).Error)
	assert.Equal(t, "Alexandre", user.Name)
	assert.Equal(t, db.TypeStrength, user.Type)

	// tag set rewritten and capped at 3
	var labels []string
	require.NoError(t, dbase.Model(&db.ExerciseTag{}).Where("user_id = ?", 1).Order("id").Pluck("label", &labels).Error)
	assert.Equal(t, []string{"Squat", "Bench", "Deadlift"}, labels)
}

func TestReplaceUserValidation(t *testing.T) {
	fiberApp, _ := setupApp(t)

	resp, _ := doJSON(t, fiberApp, http.MethodPut, "/api/users/1", fiber.Map{
		"name": "", "family_name": "Dupont", "age": 25, "type": "cardio",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPut, "/api/users/1", fiber.Map{
		"name": "Alex", "family_name": "Dupont", "age": 25, "type": "swimming",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPut, "/api/users/42", fiber.Map{
		"name": "Ghost", "family_name": "User", "age": 30, "type": "cardio",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatchUser(t *testing.T) {
	fiberApp, dbase := setupApp(t)

	resp, body := doJSON(t, fiberApp, http.MethodPatch, "/api/users/1", fiber.Map{
		"attachment_id": 9,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var user db.User
	require.NoError(t, dbase.First(&user, 1).Error)
	require.NotNil(t, user.AttachmentID)
	assert.Equal(t, uint64(9), *user.AttachmentID)
	// untouched fields survive a partial update
	assert.Equal(t, "Alex", user.Name)
	assert.Equal(t, 24, user.Age)
}

func TestPatchUserValidation(t *testing.T) {
	fiberApp, _ := setupApp(t)

	// no recognized field
	resp, _ := doJSON(t, fiberApp, http.MethodPatch, "/api/users/1", fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPatch, "/api/users/1", fiber.Map{"age": -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPatch, "/api/users/42", fiber.Map{"age": 30})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
