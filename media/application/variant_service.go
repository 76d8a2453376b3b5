package application

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/imagio/imagio/media/domain"
	"github.com/imagio/imagio/media/storage"
	"github.com/imagio/imagio/media/transform"
)

// Resolver produces the bytes for an image at a requested variant.
type Resolver interface {
	Resolve(ctx context.Context, img *domain.Image, variant domain.Variant) ([]byte, error)
}

var _ Resolver = (*VariantService)(nil)

// VariantService is the get-or-generate core: originals are served
// verbatim, derivatives are read from the cache namespace when present
// and otherwise rendered from the original and written through before
// being returned.
//
// A failed write-through fails the whole call even though the rendered
// bytes were produced; a cache that silently never fills would hide
// backend problems.
//
// Concurrent misses for the same key each render independently; the
// last write wins and every caller gets a valid result. Wrap with
// DedupVariantService to collapse those misses into one render.
type VariantService struct {
	originals   storage.Store
	derivatives storage.Store
}

func NewVariantService(originals, derivatives storage.Store) *VariantService {
	return &VariantService{
		originals:   originals,
		derivatives: derivatives,
	}
}

// Resolve returns the bytes for img at variant.
func (s *VariantService) Resolve(ctx context.Context, img *domain.Image, variant domain.Variant) ([]byte, error) {
	if variant == domain.VariantOriginal {
		return s.originals.Read(ctx, domain.StorageKey(img, domain.VariantOriginal))
	}

	derivedKey := domain.StorageKey(img, variant)

	ok, err := s.derivatives.Exists(ctx, derivedKey)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.derivatives.Read(ctx, derivedKey)
	}

	src, err := s.originals.Read(ctx, domain.StorageKey(img, domain.VariantOriginal))
	if err != nil {
		return nil, err
	}

	data, err := transform.Render(src, variant)
	if err != nil {
		return nil, err
	}

	if err := s.derivatives.Write(ctx, derivedKey, data); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Str("uuid", img.UUID).
		Str("variant", variant.String()).
		Str("key", derivedKey).
		Int("bytes", len(data)).
		Msg("derivative generated")

	return data, nil
}

// Remove deletes the stored original for img. Derivative-cache entries
// are left behind: keys never collide across uuids and the cache may be
// emptied out-of-band at any time, so the leak is harmless.
func (s *VariantService) Remove(ctx context.Context, img *domain.Image) error {
	return s.originals.Delete(ctx, domain.StorageKey(img, domain.VariantOriginal))
}

var _ Resolver = (*DedupVariantService)(nil)

// DedupVariantService deduplicates concurrent Resolve calls for the
// same derived key, so a miss storm renders once instead of once per
// caller. Original reads bypass the flight group; they do no transform
// work worth sharing.
type DedupVariantService struct {
	base  *VariantService
	group singleflight.Group
}

func NewDedupVariantService(base *VariantService) *DedupVariantService {
	return &DedupVariantService{base: base}
}

func (s *DedupVariantService) Resolve(ctx context.Context, img *domain.Image, variant domain.Variant) ([]byte, error) {
	if variant == domain.VariantOriginal {
		return s.base.Resolve(ctx, img, variant)
	}

	key := domain.StorageKey(img, variant)
	result, err, _ := s.group.Do(key, func() (any, error) {
		return s.base.Resolve(ctx, img, variant)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Remove passes through to the base service.
func (s *DedupVariantService) Remove(ctx context.Context, img *domain.Image) error {
	return s.base.Remove(ctx, img)
}
