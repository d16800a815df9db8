package attachment

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/config"
	svcErr "github.com/gymbro/gymbro-api/internal/errors"
	"github.com/gymbro/gymbro-api/internal/repository"
)

// Service stores uploaded blobs and streams them back with their
// original content type. Blobs live in the DB; callers only hold ids.
type Service struct {
	appCtx      *app.AppContext
	attachments *repository.AttachmentRepository
	maxBytes    int64
}

// NewService creates a new attachment service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, cfg *config.Config) *Service {
	return &Service{
		appCtx:      appCtx,
		attachments: repository.NewAttachmentRepository(appCtx.DB),
		maxBytes:    int64(cfg.Attachment.MaxUploadMB) * 1024 * 1024,
	}
}

// Upload handles POST /attachments (multipart field "image").
// Responds {id} on success.
func (s *Service) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return svcErr.InvalidArgument("no file uploaded")
	}

	if file.Size > s.maxBytes {
		return svcErr.InvalidArgument(fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return svcErr.InvalidArgument("only image uploads are accepted")
	}

	f, err := file.Open()
	if err != nil {
		return svcErr.Map(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return svcErr.Map(err)
	}

	id, err := s.attachments.Create(c.Context(), file.Filename, data, mimeType)
	if err != nil {
		s.appCtx.Logger.Error("attachment create failed", "err", err)
		return svcErr.Map(err)
	}

	s.appCtx.Logger.Debug("attachment stored", "id", id, "bytes", len(data), "mime", mimeType)

	return c.JSON(fiber.Map{"id": id})
}

// Download handles GET /attachments/:id.
// Streams the blob with the stored content type and inline disposition.
func (s *Service) Download(c *fiber.Ctx) error {
	attachmentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return svcErr.InvalidArgument("attachment id must be a valid id")
	}

	att, err := s.attachments.GetByID(c.Context(), attachmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("attachment not found")
	}
	if err != nil {
		return svcErr.Map(err)
	}

	c.Set(fiber.HeaderContentType, att.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", att.Namefile))
	return c.Send(att.Data)
}
