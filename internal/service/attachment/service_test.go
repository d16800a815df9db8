package attachment_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
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
	"github.com/gymbro/gymbro-api/internal/service/attachment"
)

func setupApp(t *testing.T) *fiber.App {
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

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Attachment.MaxUploadMB = 1

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger)
	return server.NewApp(cfg, appCtx, attachment.NewRegistrar(appCtx, cfg))
}

// multipartImage builds a multipart body with a single "image" part
// carrying the given content type.
func multipartImage(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestUploadAndDownloadRoundtrip(t *testing.T) {
	fiberApp := setupApp(t)

	payload := []byte("fake png bytes")
	body, contentType := multipartImage(t, "avatar.png", "image/png", payload)

	req := httptest.NewRequest(http.MethodPost, "/api/attachments", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created map[string]any
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &created))
	id := created["id"]
	require.NotNil(t, id)

	// blob comes back byte-identical with its original content type
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/attachments/%v", id), nil)
	resp, err = fiberApp.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "avatar.png")

	downloaded, _ := io.ReadAll(resp.Body)
	assert.Equal(t, payload, downloaded)
}

func TestUploadRejectsNonImage(t *testing.T) {
	fiberApp := setupApp(t)

	body, contentType := multipartImage(t, "notes.txt", "text/plain", []byte("hello"))

	req := httptest.NewRequest(http.MethodPost, "/api/attachments", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	fiberApp := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/attachments", nil)
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadNotFound(t *testing.T) {
	fiberApp := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/attachments/42", nil)
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
