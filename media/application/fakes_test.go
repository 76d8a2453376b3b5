package application

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/imagio/imagio/media/domain"
	"github.com/imagio/imagio/media/storage"
)

// memStore is an in-memory Store used as a test double.
type memStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, domain.NotFoundf("key %q", key)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *memStore) Write(ctx context.Context, key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.mu.Lock()
	s.objects[key] = buf
	s.mu.Unlock()
	return nil
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return domain.NotFoundf("key %q", key)
	}
	delete(s.objects, key)
	return nil
}

// countingStore wraps a Store and counts calls per operation.
type countingStore struct {
	base    storage.Store
	reads   atomic.Int64
	writes  atomic.Int64
	stats   atomic.Int64
	deletes atomic.Int64
}

func (s *countingStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.reads.Add(1)
	return s.base.Read(ctx, key)
}

func (s *countingStore) Write(ctx context.Context, key string, data []byte) error {
	s.writes.Add(1)
	return s.base.Write(ctx, key, data)
}

func (s *countingStore) Exists(ctx context.Context, key string) (bool, error) {
	s.stats.Add(1)
	return s.base.Exists(ctx, key)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.deletes.Add(1)
	return s.base.Delete(ctx, key)
}

// failingWriteStore rejects every write with a backend error.
type failingWriteStore struct {
	storage.Store
}

func (s *failingWriteStore) Write(ctx context.Context, key string, data []byte) error {
	return domain.BackendErrorf("write of %q rejected", key)
}

// gatedStore blocks reads until released, signalling the first entry.
type gatedStore struct {
	storage.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedStore(base storage.Store) *gatedStore {
	return &gatedStore{
		Store:   base,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *gatedStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.Store.Read(ctx, key)
}

// memRepo is an in-memory ImageRepository.
type memRepo struct {
	mu     sync.RWMutex
	images map[string]*domain.Image
}

func newMemRepo() *memRepo {
	return &memRepo{images: make(map[string]*domain.Image)}
}

func (r *memRepo) Get(ctx context.Context, id string) (*domain.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[id]
	if !ok {
		return nil, domain.NotFoundf("image %q", id)
	}
	cp := *img
	return &cp, nil
}

func (r *memRepo) Put(ctx context.Context, img *domain.Image) error {
	cp := *img
	r.mu.Lock()
	r.images[img.UUID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok {
		return nil, domain.NotFoundf("image %q", id)
	}
	delete(r.images, id)
	return img, nil
}

func (r *memRepo) List(ctx context.Context, category string, limit, skip int) ([]*domain.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Image
	for _, img := range r.images {
		if img.Category == category {
			cp := *img
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
