package catalog

import (
	"bytes"                           // In-memory reader for the blob write
	"context"                         // Request-scoped context
	"course_catalog/internal/domain"  // Importing domain models
	"course_catalog/internal/storage" // Blob storage
	"crypto/md5"                      // Content hash for deduplication
	"encoding/hex"                    // Hash formatting
	"errors"                          // Error matching
	"io"                              // Upload reading
	"net/http"                        // Content sniffing
	"path/filepath"                   // File name handling
	"strings"                         // MIME prefix check
	"time"                            // Timestamps

	"github.com/google/uuid"     // Image ids
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// MaxImageSize bounds an uploaded background image
const MaxImageSize = 5 << 20 // 5 MiB

// Upload is a file received with a form
type Upload struct {
	FileName    string    // Client-side file name
	ContentType string    // Declared MIME type, may be empty
	Body        io.Reader // File contents
}

// ImageSaver stores uploaded images once per distinct content
type ImageSaver struct {
	db    *gorm.DB          // Image metadata
	store storage.BlobStore // Image bytes
	now   func() time.Time  // Clock
}

func NewImageSaver(db *gorm.DB, store storage.BlobStore) *ImageSaver {
	return &ImageSaver{db: db, store: store, now: time.Now}
}

// Save records the upload inside tx. When an image with the same MD5 already
// exists it is reused and created is false; otherwise the bytes are written
// to blob storage and the caller owns cleaning them up if tx rolls back
func (s *ImageSaver) Save(ctx context.Context, tx *gorm.DB, up Upload) (img *domain.Image, created bool, err error) {
	data, err := io.ReadAll(io.LimitReader(up.Body, MaxImageSize+1)) // One extra byte detects oversize
	if err != nil {
		return nil, false, validationError("Could not read the uploaded file")
	}
	if len(data) > MaxImageSize {
		return nil, false, ErrImageTooLarge
	}

	mimeType := up.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data) // Sniff when the client did not say
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, false, ErrNotAnImage
	}

	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])

	var existing domain.Image
	err = tx.Where("md5_hash = ?", hash).First(&existing).Error
	if err == nil {
		return &existing, false, nil // Same bytes already stored
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, classify(err)
	}

	img = &domain.Image{
		ID:        uuid.NewString(),
		FileName:  filepath.Base(up.FileName),
		MimeType:  mimeType,
		MD5Hash:   hash,
		CreatedAt: s.now(),
	}
	if err := tx.Create(img).Error; err != nil {
		return nil, false, classify(err)
	}
	if err := s.store.Put(ctx, img.StorageKey(), mimeType, bytes.NewReader(data)); err != nil {
		return nil, false, classify(err)
	}
	return img, true, nil
}

// Discard removes blob bytes written for an image whose row was rolled back
func (s *ImageSaver) Discard(ctx context.Context, img *domain.Image) {
	if err := s.store.Delete(ctx, img.StorageKey()); err != nil {
		logrus.WithFields(logrus.Fields{
			"image_id": img.ID,
			"error":    err.Error(),
		}).Warn("Failed to remove orphaned image blob")
	}
}

// Open returns an image's metadata and a reader over its bytes
func (s *ImageSaver) Open(ctx context.Context, id string) (*domain.Image, io.ReadCloser, error) {
	var img domain.Image
	if err := s.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrImageNotFound
		}
		return nil, nil, classify(err)
	}
	rc, err := s.store.Get(ctx, img.StorageKey())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrImageNotFound // Row without bytes
	}
	if err != nil {
		return nil, nil, classify(err)
	}
	return &img, rc, nil
}
