package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KirillGluhov/gallery-api/internal/events"
	"github.com/KirillGluhov/gallery-api/internal/media/sniffer"
	"github.com/KirillGluhov/gallery-api/internal/media/svg"
	"github.com/KirillGluhov/gallery-api/internal/models"
	"github.com/KirillGluhov/gallery-api/internal/storage"
)

const (
	defaultExtension = ".jpg"
	galleryDate      = "1/2/2006"
)

type ImageStore interface {
	Create(ctx context.Context, image models.Image) (models.Image, error)
	List(ctx context.Context) ([]models.Image, error)
	ListRecent(ctx context.Context) ([]models.Image, error)
	GetPath(ctx context.Context, id int64) (string, error)
	Delete(ctx context.Context, id int64) (int64, error)
	IncrementViews(ctx context.Context, id int64) error
}

type UploadInput struct {
	Filename    string
	File        io.Reader
	Name        string
	Description string
	Author      string
}

type GalleryService struct {
	images ImageStore
	files  storage.FileStore
	tasks  *events.Publisher
	log    zerolog.Logger
}

func NewGalleryService(images ImageStore, files storage.FileStore, tasks *events.Publisher, log zerolog.Logger) *GalleryService {
	return &GalleryService{
		images: images,
		files:  files,
		tasks:  tasks,
		log:    log,
	}
}

// Upload stores the bytes first and the row second, so a row never points at
// a file that was not written.
func (s *GalleryService) Upload(ctx context.Context, input UploadInput) (models.Image, error) {
	if input.File == nil {
		return models.Image{}, ErrImageRequired
	}

	data, err := io.ReadAll(input.File)
	if err != nil {
		return models.Image{}, fmt.Errorf("read upload: %w", err)
	}

	contentType := sniffer.FallbackMIME
	if result, err := sniffer.DetectHead(data); err == nil {
		contentType = result.MIME
		if result.Type == sniffer.TypeSVG {
			clean, err := svg.Sanitize(data)
			if err != nil {
				return models.Image{}, fmt.Errorf("sanitize svg: %w", err)
			}
			data = clean
		}
	}

	image := models.Image{
		Name:        input.Name,
		Description: input.Description,
		Author:      input.Author,
		Path:        StoredName(input.Filename),
	}
	if image.Name == "" {
		image.Name = DefaultName(input.Filename)
	}

	if err := s.files.Save(ctx, image.Path, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return models.Image{}, fmt.Errorf("save file: %w", err)
	}

	created, err := s.images.Create(ctx, image)
	if err != nil {
		if rmErr := s.files.Remove(ctx, image.Path); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("path", image.Path).Msg("remove orphaned upload failed")
		}
		return models.Image{}, storeErr("insert image", err)
	}

	s.log.Info().Int64("image_id", created.ID).Str("path", created.Path).Msg("image uploaded")
	return created, nil
}

func (s *GalleryService) List(ctx context.Context) ([]models.Image, error) {
	images, err := s.images.List(ctx)
	if err != nil {
		return nil, storeErr("list images", err)
	}
	return nonNil(images), nil
}

func (s *GalleryService) Recent(ctx context.Context) ([]models.GalleryImage, error) {
	images, err := s.images.ListRecent(ctx)
	if err != nil {
		return nil, storeErr("list recent images", err)
	}

	out := make([]models.GalleryImage, 0, len(images))
	for _, image := range images {
		out = append(out, models.GalleryImage{
			Image:         image,
			FormattedDate: image.Date.Format(galleryDate),
		})
	}
	return out, nil
}

// Delete removes the row, then the file. A file that cannot be removed is
// handed to the worker and does not fail the delete.
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	path, err := s.images.GetPath(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return err
		}
		return storeErr("select image", err)
	}

	affected, err := s.images.Delete(ctx, id)
	if err != nil {
		return storeErr("delete image", err)
	}
	if affected == 0 {
		return ErrDeleteFailed
	}

	if err := s.files.Remove(ctx, path); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("delete file failed")
		if _, qErr := s.tasks.Publish(ctx, events.TypeFileCleanup, path); qErr != nil {
			s.log.Error().Err(qErr).Str("path", path).Msg("enqueue file cleanup failed")
		}
		return nil
	}

	s.log.Info().Int64("image_id", id).Str("path", path).Msg("image deleted")
	return nil
}

func (s *GalleryService) RecordView(ctx context.Context, id int64) error {
	if err := s.images.IncrementViews(ctx, id); err != nil {
		if isNotFound(err) {
			return err
		}
		return storeErr("increment views", err)
	}
	return nil
}

func (s *GalleryService) OpenFile(ctx context.Context, name string) (io.ReadCloser, string, error) {
	rc, err := s.files.Open(ctx, name)
	if err != nil {
		return nil, "", err
	}
	return rc, sniffer.FromExtension(name).MIME, nil
}

// StoredName is a fresh uuid plus the extension of the uploaded file name.
func StoredName(original string) string {
	ext := filepath.Ext(original)
	if ext == "" || ext == "." {
		ext = defaultExtension
	}
	return uuid.NewString() + strings.ToLower(ext)
}

// DefaultName turns "summer_trip-01.jpg" into "summer trip 01".
func DefaultName(original string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	if strings.TrimSpace(base) == "" {
		return "Untitled"
	}
	return base
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrImageNotFound)
}
