package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagio/imagio/media/domain"
)

func newTestStore(t *testing.T) *FilesystemStore {
	t.Helper()
	s, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewFilesystemStoreValidation(t *testing.T) {
	_, err := NewFilesystemStore("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))

	_, err = NewFilesystemStore("relative/path")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestFilesystemStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Write(ctx, "public_abc_thumb.JPG", []byte("thumb bytes"))
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "public_abc_thumb.JPG")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Read(ctx, "public_abc_thumb.JPG")
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb bytes"), data)
}

func TestFilesystemStoreCreatesDirectories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Original keys contain a category directory segment.
	err := s.Write(ctx, "public/abc.JPG", []byte("original bytes"))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(s.root, "public", "abc.JPG"))
	require.NoError(t, statErr)

	data, err := s.Read(ctx, "public/abc.JPG")
	require.NoError(t, err)
	assert.Equal(t, []byte("original bytes"), data)
}

func TestFilesystemStoreOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "k", []byte("one")))
	require.NoError(t, s.Write(ctx, "k", []byte("two")))

	data, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestFilesystemStoreMissingKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Read(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	ok, err := s.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.Delete(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFilesystemStoreDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "k", []byte("data")))
	require.NoError(t, s.Delete(ctx, "k"))

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewDispatch(t *testing.T) {
	s, err := New(Config{Backend: BackendFilesystem, Root: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, (*FilesystemStore)(nil), s)

	_, err = New(Config{Backend: "carrier-pigeon"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}
