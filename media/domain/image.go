package domain

import (
	"context"
	"time"
)

// Image describes one stored original. The UUID is assigned at upload
// time and never reused; the byte stream it names is immutable.
type Image struct {
	UUID      string
	Category  string
	MIME      string
	CreatedAt time.Time
}

type ImageRepository interface {
	// Get retrieves a single image record by uuid
	Get(ctx context.Context, uuid string) (*Image, error)

	// Put registers a new image record
	Put(ctx context.Context, img *Image) error

	// Delete removes the record and returns it so callers can clean up
	// the stored bytes it pointed at
	Delete(ctx context.Context, uuid string) (*Image, error)

	// List returns records in a category, newest first
	List(ctx context.Context, category string, limit int, skip int) ([]*Image, error)
}
