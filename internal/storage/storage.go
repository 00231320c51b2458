// Package storage keeps uploaded file bytes outside the database.
package storage

import (
	"context" // Request-scoped context
	"errors"  // Sentinel errors
	"io"      // Blob streams
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("blob not found")

// BlobStore stores opaque blobs by key
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error // Create or replace
	Get(ctx context.Context, key string) (io.ReadCloser, error)          // ErrNotFound when missing
	Delete(ctx context.Context, key string) error                        // Missing keys are not an error
}
