package repository

import (
	"context"
	"time"

	"github.com/gymbro/gymbro-api/internal/db"
	"github.com/gymbro/gymbro-api/internal/utils/pagination"

	"gorm.io/gorm"
)

// MessageRepository provides access to the append-only chat log of a
// relation.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// MessageRow is a chat entry joined with the sender's display name.
type MessageRow struct {
	ID         uint64    `json:"id"`
	RelationID uint64    `json:"relation_id"`
	FromUserID uint64    `json:"from_user_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
	FromName   string    `json:"from_name"`
}

// ListByRelation returns messages of a relation in send order ascending.
//
// Behavior:
//   - Ordered by sent_at ASC, id ASC (stable for same-timestamp rows).
//   - Supports cursor-based pagination via paginationToken; the cursor
//     points past the last returned message.
//
// Example:
//
//	repo.ListByRelation(ctx, 7, nil, 50) // first 50 messages of relation 7
func (r *MessageRepository) ListByRelation(
	ctx context.Context,
	relationID uint64,
	paginationToken *string,
	limit int,
) ([]MessageRow, *string, error) {
	var rows []MessageRow

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("messages m").
		Select("m.id, m.relation_id, m.from_user_id, m.content, m.sent_at, u.name AS from_name").
		Joins("JOIN users u ON u.id = m.from_user_id").
		Where("m.relation_id = ?", relationID).
		Order("m.sent_at ASC, m.id ASC").
		Limit(limit + 1)

	// apply cursor
	if cursor.MessageID > 0 && cursor.SentUnix > 0 {
		ts := time.UnixMilli(cursor.SentUnix).UTC()
		query = query.Where(
			"(m.sent_at > ? OR (m.sent_at = ? AND m.id > ?))",
			ts, ts, cursor.MessageID,
		)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MessageID: last.ID,
			SentUnix:  last.SentAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	return rows, nextToken, nil
}

// Create appends a message to a relation's log.
func (r *MessageRepository) Create(ctx context.Context, relationID, fromUserID uint64, content string) (*db.Message, error) {
	msg := db.Message{
		RelationID: relationID,
		FromUserID: fromUserID,
		Content:    content,
	}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
