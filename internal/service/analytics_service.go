package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/KirillGluhov/gallery-api/internal/models"
)

const (
	TimelineDays        = 30
	DashboardAuthors    = 10
	RawAuthors          = 20
	DashboardMostViewed = 10

	readableDateLayout = "January 2, 2006"
)

type AnalyticsStore interface {
	Counts(ctx context.Context) (models.ImageCounts, error)
	Timeline(ctx context.Context, limit int) ([]models.TimelineEntry, error)
	TopAuthors(ctx context.Context, limit int) ([]models.AuthorStat, error)
	MostViewed(ctx context.Context, limit int) ([]models.PopularImage, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Dashboard runs the four aggregates concurrently. The first failure cancels
// the others and no partial dashboard is returned.
func (s *AnalyticsService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var (
		counts   models.ImageCounts
		timeline []models.TimelineEntry
		authors  []models.AuthorStat
		popular  []models.PopularImage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.store.Counts(gctx)
		return storeErr("counts", err)
	})
	g.Go(func() error {
		var err error
		timeline, err = s.store.Timeline(gctx, TimelineDays)
		return storeErr("timeline", err)
	})
	g.Go(func() error {
		var err error
		authors, err = s.store.TopAuthors(gctx, DashboardAuthors)
		return storeErr("top authors", err)
	})
	g.Go(func() error {
		var err error
		popular, err = s.store.MostViewed(gctx, DashboardMostViewed)
		return storeErr("most viewed", err)
	})
	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}

	readable := make([]models.DashboardTimelineEntry, 0, len(timeline))
	for _, entry := range timeline {
		readable = append(readable, models.DashboardTimelineEntry{
			TimelineEntry: entry,
			ReadableDate:  entry.UploadDate.Format(readableDateLayout),
		})
	}

	return models.Dashboard{
		Stats:    counts,
		Timeline: readable,
		Authors:  nonNil(authors),
		Popular:  nonNil(popular),
	}, nil
}

func (s *AnalyticsService) Count(ctx context.Context) (models.ImageCounts, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return models.ImageCounts{}, storeErr("counts", err)
	}
	return counts, nil
}

func (s *AnalyticsService) Timeline(ctx context.Context) ([]models.TimelineEntry, error) {
	timeline, err := s.store.Timeline(ctx, TimelineDays)
	if err != nil {
		return nil, storeErr("timeline", err)
	}
	return nonNil(timeline), nil
}

func (s *AnalyticsService) TopAuthors(ctx context.Context) ([]models.AuthorStat, error) {
	authors, err := s.store.TopAuthors(ctx, RawAuthors)
	if err != nil {
		return nil, storeErr("top authors", err)
	}
	return nonNil(authors), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
