package repository

import (
	"context"

	"github.com/gymbro/gymbro-api/internal/db"

	"gorm.io/gorm"
)

// AttachmentRepository stores and serves opaque blobs.
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new repository bound to the given DB connection.
func NewAttachmentRepository(database *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: database}
}

// Create stores a blob and returns its id.
func (r *AttachmentRepository) Create(ctx context.Context, namefile string, data []byte, mimeType string) (uint64, error) {
	att := db.Attachment{
		Namefile: namefile,
		Data:     data,
		MimeType: mimeType,
	}
	if err := r.db.WithContext(ctx).Create(&att).Error; err != nil {
		return 0, err
	}
	return att.ID, nil
}

// GetByID fetches a blob with its metadata.
func (r *AttachmentRepository) GetByID(ctx context.Context, attachmentID uint64) (*db.Attachment, error) {
	var att db.Attachment
	if err := r.db.WithContext(ctx).First(&att, attachmentID).Error; err != nil {
		return nil, err
	}
	return &att, nil
}
