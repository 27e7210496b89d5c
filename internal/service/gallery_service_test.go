package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirillGluhov/gallery-api/internal/events"
	"github.com/KirillGluhov/gallery-api/internal/models"
	"github.com/KirillGluhov/gallery-api/internal/storage"
)

type fakeImageStore struct {
	rows      map[int64]models.Image
	nextID    int64
	createErr error
	deleteN   *int64
	err       error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{rows: map[int64]models.Image{}, nextID: 1}
}

func (f *fakeImageStore) Create(_ context.Context, image models.Image) (models.Image, error) {
	if f.createErr != nil {
		return models.Image{}, f.createErr
	}
	image.ID = f.nextID
	image.Date = time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC)
	f.rows[image.ID] = image
	f.nextID++
	return image, nil
}

func (f *fakeImageStore) List(context.Context) ([]models.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Image
	for id := int64(1); id < f.nextID; id++ {
		if img, ok := f.rows[id]; ok {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeImageStore) ListRecent(ctx context.Context) ([]models.Image, error) {
	return f.List(ctx)
}

func (f *fakeImageStore) GetPath(_ context.Context, id int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	img, ok := f.rows[id]
	if !ok {
		return "", ErrImageNotFound
	}
	return img.Path, nil
}

func (f *fakeImageStore) Delete(_ context.Context, id int64) (int64, error) {
	if f.deleteN != nil {
		return *f.deleteN, nil
	}
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakeImageStore) IncrementViews(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	img, ok := f.rows[id]
	if !ok {
		return ErrImageNotFound
	}
	img.Views++
	f.rows[id] = img
	return nil
}

func newGallery(t *testing.T) (*GalleryService, *fakeImageStore, *storage.LocalStore) {
	t.Helper()
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	images := newFakeImageStore()
	return NewGalleryService(images, files, events.NewPublisher(nil, ""), zerolog.Nop()), images, files
}

func TestUpload_StoresFileAndRow(t *testing.T) {
	svc, images, files := newGallery(t)

	image, err := svc.Upload(context.Background(), UploadInput{
		Filename: "summer_trip-01.PNG",
		File:     strings.NewReader("\x89PNG\r\n\x1a\npixels"),
		Author:   "ann",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), image.ID)
	assert.Equal(t, "summer trip 01", image.Name)
	assert.Equal(t, "ann", image.Author)
	assert.Equal(t, "", image.Description)
	assert.True(t, strings.HasSuffix(image.Path, ".png"), image.Path)
	assert.Contains(t, images.rows, int64(1))

	body, err := os.ReadFile(filepath.Join(files.Dir(), image.Path))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\npixels", string(body))
}

func TestUpload_RequiresFile(t *testing.T) {
	svc, _, _ := newGallery(t)

	_, err := svc.Upload(context.Background(), UploadInput{Filename: "a.jpg"})
	assert.ErrorIs(t, err, ErrImageRequired)
}

func TestUpload_SanitizesSVG(t *testing.T) {
	svc, _, files := newGallery(t)

	image, err := svc.Upload(context.Background(), UploadInput{
		Filename: "logo.svg",
		File:     strings.NewReader(`<svg onload="x()"><script>alert(1)</script></svg>`),
		Name:     "Logo",
	})
	require.NoError(t, err)
	assert.Equal(t, "Logo", image.Name)

	body, err := os.ReadFile(filepath.Join(files.Dir(), image.Path))
	require.NoError(t, err)
	assert.Equal(t, `<svg></svg>`, string(body))
}

func TestUpload_InsertFailureRemovesFile(t *testing.T) {
	svc, images, files := newGallery(t)
	images.createErr = errors.New("insert failed")

	_, err := svc.Upload(context.Background(), UploadInput{Filename: "a.jpg", File: strings.NewReader("x")})
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)

	stored, err := files.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestDelete(t *testing.T) {
	svc, images, files := newGallery(t)
	ctx := context.Background()

	image, err := svc.Upload(ctx, UploadInput{Filename: "a.gif", File: strings.NewReader("GIF89a")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, image.ID))
	assert.NotContains(t, images.rows, image.ID)
	_, err = files.Open(ctx, image.Path)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, image.ID), ErrImageNotFound)
}

func TestDelete_ZeroAffectedRows(t *testing.T) {
	svc, images, _ := newGallery(t)
	ctx := context.Background()

	image, err := svc.Upload(ctx, UploadInput{Filename: "a.jpg", File: strings.NewReader("x")})
	require.NoError(t, err)

	zero := int64(0)
	images.deleteN = &zero
	assert.ErrorIs(t, svc.Delete(ctx, image.ID), ErrDeleteFailed)
}

func TestDelete_MissingFileStillSucceeds(t *testing.T) {
	svc, images, _ := newGallery(t)
	images.rows[5] = models.Image{ID: 5, Path: "gone.jpg"}

	assert.NoError(t, svc.Delete(context.Background(), 5))
}

func TestRecordView(t *testing.T) {
	svc, images, _ := newGallery(t)
	images.rows[1] = models.Image{ID: 1, Path: "a.jpg"}

	require.NoError(t, svc.RecordView(context.Background(), 1))
	require.NoError(t, svc.RecordView(context.Background(), 1))
	assert.Equal(t, int64(2), images.rows[1].Views)

	assert.ErrorIs(t, svc.RecordView(context.Background(), 99), ErrImageNotFound)

	images.err = errors.New("down")
	var storeErr *StoreError
	assert.ErrorAs(t, svc.RecordView(context.Background(), 1), &storeErr)
}

func TestListNeverNil(t *testing.T) {
	svc, _, _ := newGallery(t)

	images, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestRecentFormatsDate(t *testing.T) {
	svc, images, _ := newGallery(t)
	images.rows[1] = models.Image{ID: 1, Date: time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC)}
	images.nextID = 2

	recent, err := svc.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "7/4/2024", recent[0].FormattedDate)
}

func TestOpenFile(t *testing.T) {
	svc, _, files := newGallery(t)
	ctx := context.Background()
	require.NoError(t, files.Save(ctx, "x.webp", strings.NewReader("data"), 4, ""))

	rc, contentType, err := svc.OpenFile(ctx, "x.webp")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "data", string(body))
	assert.Equal(t, "image/webp", contentType)
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "summer trip 01", DefaultName("summer_trip-01.jpg"))
	assert.Equal(t, "photo", DefaultName("photo"))
	assert.Equal(t, "Untitled", DefaultName(""))
	assert.Equal(t, "Untitled", DefaultName(".jpg"))
}

func TestStoredName(t *testing.T) {
	assert.True(t, strings.HasSuffix(StoredName("a.JPEG"), ".jpeg"))
	assert.True(t, strings.HasSuffix(StoredName("noext"), ".jpg"))
	assert.NotEqual(t, StoredName("a.jpg"), StoredName("a.jpg"))
	assert.Len(t, StoredName("a.png"), 36+len(".png"))
}
