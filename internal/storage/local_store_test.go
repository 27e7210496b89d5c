package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg"))

	rc, err := store.Open(ctx, "a.jpg")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	files, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.jpg", files[0].Name)
	assert.False(t, files[0].ModTime.IsZero())

	require.NoError(t, store.Remove(ctx, "a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_RemoveMissingIsNoop(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove(context.Background(), "never-existed.png"))
}

func TestLocalStore_OpenMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "nope.png")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStore_RejectsNestedNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"../escape.jpg", "sub/dir.jpg", "", ".."} {
		err := store.Save(ctx, name, strings.NewReader("x"), 1, "")
		assert.Error(t, err, name)
	}
}
