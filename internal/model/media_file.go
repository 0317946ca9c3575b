// Package model defines database models
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaFile is a row of the media_files table. A row only exists for objects
// that were already written to the object store.
type MediaFile struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	UserID        string     `gorm:"index;not null" json:"user_id"`
	StorageBucket Bucket     `gorm:"uniqueIndex:idx_bucket_path;not null" json:"storage_bucket"`
	StoragePath   string     `gorm:"uniqueIndex:idx_bucket_path;not null" json:"storage_path"`
	Kind          Kind       `gorm:"not null" json:"kind"`
	MimeType      *string    `json:"mime_type"`
	SizeBytes     int64      `json:"size_bytes"`
	Visibility    Visibility `gorm:"not null" json:"visibility"`
	Category      Category   `gorm:"not null" json:"category"`
	IsSensitive   bool       `json:"is_sensitive"`
	AdultOnly     bool       `json:"adult_only"`
	Moderation    Moderation `gorm:"not null;default:pending" json:"moderation"`
	CreatedAt     int64      `gorm:"autoCreateTime:milli" json:"created_at"` // Unix milliseconds
}

func (MediaFile) TableName() string {
	return "media_files"
}

func (m *MediaFile) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	return nil
}
