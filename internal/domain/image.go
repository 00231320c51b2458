package domain

import (
	"path/filepath" // File extension handling
	"time"          // Timestamps
)

// Image Model stores metadata of an uploaded file; the bytes live in blob storage
type Image struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`       // UUID primary key
	FileName  string    `gorm:"size:100;not null" json:"file_name"` // Original file name
	MimeType  string    `gorm:"size:100;not null" json:"mime_type"` // Content type
	MD5Hash   string    `gorm:"size:32;unique;not null" json:"-"`   // Content hash used for deduplication
	CreatedAt time.Time `json:"created_at"`                         // Upload time
}

// StorageKey is the blob key the image bytes are stored under
func (i Image) StorageKey() string {
	return i.ID + filepath.Ext(i.FileName)
}

// URL is the public path serving the image
func (i Image) URL() string {
	return "/images/" + i.ID
}
