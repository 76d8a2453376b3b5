package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/imagio/imagio/media/domain"
	"github.com/imagio/imagio/shared/db"
)

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository implements domain.ImageRepository using SQL database (SQLite)
type SQLiteImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLiteImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db: sqlDB,
	}
}

const getImageQuery = `
	SELECT uuid, category, mime, create_time
	FROM images
	WHERE uuid = ?
`

// Get retrieves a single image record by uuid
func (r *SQLiteImageRepository) Get(ctx context.Context, uuid string) (*domain.Image, error) {
	if uuid == "" {
		return nil, fmt.Errorf("image uuid cannot be empty")
	}

	var row imageRow
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getImageQuery, uuid).Scan(
		&row.UUID,
		&row.Category,
		&row.MIME,
		&row.CreateTime,
	)

	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("image %q", uuid)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return row.toDomain(), nil
}

const insertImageQuery = `
	INSERT INTO images (uuid, category, mime, create_time)
	VALUES (?, ?, ?, ?)
`

// Put registers a new image record. UUIDs are assigned once at upload
// time, so this is a plain insert rather than an upsert.
func (r *SQLiteImageRepository) Put(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.UUID == "" {
		return fmt.Errorf("image uuid cannot be empty")
	}

	createTime := img.CreatedAt
	if createTime.IsZero() {
		createTime = time.Now().UTC()
	}

	_, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, insertImageQuery,
		img.UUID,
		img.Category,
		img.MIME,
		createTime,
	)

	if err != nil {
		return fmt.Errorf("failed to insert image record: %w", err)
	}

	return nil
}

const deleteImageQuery = `
	DELETE FROM images WHERE uuid = ?
`

// Delete removes the record and returns it, so the caller can clean up
// the stored bytes it referenced
func (r *SQLiteImageRepository) Delete(ctx context.Context, uuid string) (*domain.Image, error) {
	if uuid == "" {
		return nil, fmt.Errorf("image uuid cannot be empty")
	}

	var deleted *domain.Image

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		img, err := r.Get(txCtx, uuid)
		if err != nil {
			return err
		}

		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, deleteImageQuery, uuid); err != nil {
			return fmt.Errorf("failed to delete image record: %w", err)
		}

		deleted = img
		return nil
	})

	if err != nil {
		return nil, err
	}

	return deleted, nil
}

const listImagesQuery = `
	SELECT uuid, category, mime, create_time
	FROM images
	WHERE category = ?
	ORDER BY create_time DESC
	LIMIT ? OFFSET ?
`

// List returns the records in a category ordered by creation time, newest first
func (r *SQLiteImageRepository) List(ctx context.Context, category string, limit int, skip int) ([]*domain.Image, error) {
	if category == "" {
		return nil, fmt.Errorf("category cannot be empty")
	}

	if limit <= 0 {
		limit = 100
	}

	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx, listImagesQuery, category, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*domain.Image
	for rows.Next() {
		var row imageRow
		if err := rows.Scan(&row.UUID, &row.Category, &row.MIME, &row.CreateTime); err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image rows: %w", err)
	}

	return images, nil
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	UUID       string       `db:"uuid"`
	Category   string       `db:"category"`
	MIME       string       `db:"mime"`
	CreateTime sql.NullTime `db:"create_time"`
}

// toDomain converts an imageRow to a domain.Image, handling nullable times
func (ir *imageRow) toDomain() *domain.Image {
	img := &domain.Image{
		UUID:     ir.UUID,
		Category: ir.Category,
		MIME:     ir.MIME,
	}

	if ir.CreateTime.Valid {
		img.CreatedAt = ir.CreateTime.Time
	}

	return img
}
