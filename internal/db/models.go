package db

import (
	"time"
)

// Exercise type values stored in users.type.
const (
	TypeMassGain    = "mass_gain"
	TypeMassLoss    = "mass_loss"
	TypeCardio      = "cardio"
	TypeStrength    = "strength"
	TypeFlexibility = "flexibility"
)

// ValidExerciseType reports whether s is one of the known exercise types.
func ValidExerciseType(s string) bool {
	switch s {
	case TypeMassGain, TypeMassLoss, TypeCardio, TypeStrength, TypeFlexibility:
		return true
	}
	return false
}

// User profile. Gym and Attachment references are optional.
type User struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement"`
	Name         string  `gorm:"size:100;not null"`
	FamilyName   string  `gorm:"size:100;not null"`
	Age          int     `gorm:"not null"`
	Type         string  `gorm:"size:16;not null;default:mass_gain"`
	Description  *string `gorm:"type:text"`
	GymID        *uint64
	AttachmentID *uint64
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// Gym is static reference data.
type Gym struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:255;not null"`
	Location     string `gorm:"size:500;not null"`
	AttachmentID *uint64
}

// ExerciseTag is a free-text label on a user. The 3-per-user cap is
// enforced in the profile service, not the schema.
type ExerciseTag struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`
	Label  string `gorm:"size:50;not null"`
}

// Like is a directional edge liker -> liked.
//
// Unique (liker_id, liked_id) gives insert-if-absent semantics a key:
// re-liking is a no-op, and concurrent likes cannot produce duplicates.
type Like struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	LikerID   uint64    `gorm:"not null;uniqueIndex:idx_liker_liked,priority:1"`
	LikedID   uint64    `gorm:"not null;uniqueIndex:idx_liker_liked,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Seen records a pass so the candidate never reappears in discovery.
type Seen struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ViewerID  uint64    `gorm:"not null;uniqueIndex:idx_viewer_seen,priority:1"`
	SeenID    uint64    `gorm:"not null;uniqueIndex:idx_viewer_seen,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Relation is a confirmed match, created on mutual like.
//
// Rows are stored canonically with User1ID < User2ID so the unique
// (user1_id, user2_id) key holds one row per unordered pair regardless
// of who liked whom last.
type Relation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:idx_relation_pair,priority:1"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:idx_relation_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message is an append-only chat entry inside a relation.
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	RelationID uint64    `gorm:"not null;index:idx_relation_sent,priority:1"`
	FromUserID uint64    `gorm:"not null"`
	Content    string    `gorm:"type:text;not null"`
	SentAt     time.Time `gorm:"autoCreateTime;index:idx_relation_sent,priority:2"`
}

// Attachment is an opaque blob stored in-DB, served back with its
// original content type.
type Attachment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Namefile  string    `gorm:"size:255;not null"`
	Data      []byte    `gorm:"type:longblob;not null"`
	MimeType  string    `gorm:"size:100;not null;default:image/jpeg"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
