package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/imagio/imagio/media/domain"
	"github.com/imagio/imagio/media/storage"
)

// ImageService owns the upload and delete paths: original bytes go to
// the originals store, the record goes to the metadata repository.
// Writes are ordered bytes-then-record; a crash between the two leaves
// an orphaned original, which Refresh can reconcile.
type ImageService struct {
	repo      domain.ImageRepository
	originals storage.Store
	variants  *VariantService
}

func NewImageService(repo domain.ImageRepository, originals storage.Store, variants *VariantService) *ImageService {
	return &ImageService{
		repo:      repo,
		originals: originals,
		variants:  variants,
	}
}

// Upload stores a new original under a fresh uuid and registers its
// metadata. The MIME type is sniffed from the payload, not trusted from
// the client.
func (s *ImageService) Upload(ctx context.Context, category string, data []byte) (*domain.Image, error) {
	if category == "" {
		return nil, fmt.Errorf("category cannot be empty")
	}
	if len(data) == 0 {
		return nil, domain.DecodeErrorf("empty upload payload")
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, domain.DecodeErrorf("unsupported content type %q", mime.String())
	}

	img := &domain.Image{
		UUID:      uuid.NewString(),
		Category:  category,
		MIME:      mime.String(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.originals.Write(ctx, domain.StorageKey(img, domain.VariantOriginal), data); err != nil {
		return nil, err
	}

	if err := s.repo.Put(ctx, img); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("uuid", img.UUID).
		Str("category", img.Category).
		Str("mime", img.MIME).
		Int("bytes", len(data)).
		Msg("image uploaded")

	return img, nil
}

// Get retrieves the metadata record for a uuid.
func (s *ImageService) Get(ctx context.Context, id string) (*domain.Image, error) {
	return s.repo.Get(ctx, id)
}

// List returns the records in a category, newest first.
func (s *ImageService) List(ctx context.Context, category string, limit, skip int) ([]*domain.Image, error) {
	return s.repo.List(ctx, category, limit, skip)
}

// Delete removes the metadata record and the stored original. A
// missing original is tolerated; stale derivatives are left to the
// cache's self-healing semantics.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	img, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := s.variants.Remove(ctx, img); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	log.Ctx(ctx).Info().Str("uuid", id).Msg("image deleted")
	return nil
}

// Refresh rebuilds metadata records by sweeping a filesystem originals
// root laid out as category directories of uuid-named files. It exists
// to recover from orphaned originals and lost databases; records that
// already exist are skipped.
func (s *ImageService) Refresh(ctx context.Context, root string) error {
	categories, err := os.ReadDir(root)
	if err != nil {
		return domain.BackendErrorf("failed to read originals root %q: %v", root, err)
	}

	for _, category := range categories {
		if !category.IsDir() {
			continue
		}

		files, err := os.ReadDir(filepath.Join(root, category.Name()))
		if err != nil {
			return domain.BackendErrorf("failed to read category %q: %v", category.Name(), err)
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}

			name := file.Name()
			id := strings.TrimSuffix(name, filepath.Ext(name))
			if id == "" {
				continue
			}

			if _, err := s.repo.Get(ctx, id); err == nil {
				continue
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}

			img := &domain.Image{
				UUID:      id,
				Category:  category.Name(),
				MIME:      mimeFromExt(filepath.Ext(name)),
				CreatedAt: time.Now().UTC(),
			}
			if err := s.repo.Put(ctx, img); err != nil {
				return err
			}

			log.Ctx(ctx).Info().
				Str("uuid", id).
				Str("category", category.Name()).
				Msg("metadata record restored")
		}
	}

	return nil
}

func mimeFromExt(ext string) string {
	switch strings.ToUpper(strings.TrimPrefix(ext, ".")) {
	case "JPG", "JPEG":
		return "image/jpeg"
	case "PNG":
		return "image/png"
	case "GIF":
		return "image/gif"
	case "WEBP":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
