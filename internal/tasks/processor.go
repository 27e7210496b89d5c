package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/KirillGluhov/gallery-api/internal/events"
	"github.com/KirillGluhov/gallery-api/internal/storage"
)

// PathLister reports every file name still referenced by an image row.
type PathLister interface {
	ListPaths(ctx context.Context) (map[string]struct{}, error)
}

type Processor struct {
	files  storage.FileStore
	images PathLister
	grace  time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

func NewProcessor(files storage.FileStore, images PathLister, grace time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{
		files:  files,
		images: images,
		grace:  grace,
		now:    time.Now,
		logger: logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	taskType, _ := msg.Values["type"].(string)
	path, _ := msg.Values["path"].(string)

	switch taskType {
	case events.TypeFileCleanup:
		return p.handleFileCleanup(ctx, path)
	case events.TypeSweep:
		_, err := p.Sweep(ctx)
		return err
	default:
		p.logger.Warn().Str("type", taskType).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleFileCleanup(ctx context.Context, path string) error {
	if path == "" {
		p.logger.Warn().Msg("file cleanup task without path")
		return nil
	}
	if err := p.files.Remove(ctx, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	p.logger.Info().Str("path", path).Msg("file cleaned up")
	return nil
}

// Sweep removes stored files that no image row references. Files younger
// than the grace period are skipped so an in-flight upload is never lost.
func (p *Processor) Sweep(ctx context.Context) (int, error) {
	referenced, err := p.images.ListPaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("list image paths: %w", err)
	}
	stored, err := p.files.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored files: %w", err)
	}

	cutoff := p.now().Add(-p.grace)
	removed := 0
	for _, file := range stored {
		if _, ok := referenced[file.Name]; ok {
			continue
		}
		if file.ModTime.After(cutoff) {
			continue
		}
		if err := p.files.Remove(ctx, file.Name); err != nil {
			p.logger.Error().Err(err).Str("path", file.Name).Msg("remove orphan failed")
			continue
		}
		removed++
	}

	p.logger.Info().
		Int("stored", len(stored)).
		Int("referenced", len(referenced)).
		Int("removed", removed).
		Msg("orphan sweep finished")
	return removed, nil
}
