package repository

import (
	"context"

	"github.com/KirillGluhov/gallery-api/internal/models"
)

const (
	countsQuery = `
		SELECT
			COUNT(*),
			COUNT(DISTINCT author),
			COUNT(DISTINCT CASE WHEN author IS NOT NULL AND author <> '' THEN author END)
		FROM data
	`

	timelineQuery = `
		SELECT "date"::date AS upload_date, COUNT(*) AS count
		FROM data
		GROUP BY upload_date
		ORDER BY upload_date DESC
		LIMIT $1
	`

	topAuthorsQuery = `
		SELECT author, COUNT(*) AS image_count
		FROM data
		WHERE author IS NOT NULL AND author <> ''
		GROUP BY author
		ORDER BY image_count DESC, author
		LIMIT $1
	`

	mostViewedQuery = `
		SELECT name, views, path
		FROM data
		ORDER BY views DESC, id
		LIMIT $1
	`
)

// AnalyticsRepository runs read-only aggregates over the data table.
// Each call is an independent statement; callers get no snapshot isolation
// across calls.
type AnalyticsRepository struct {
	db DBTX
}

func NewAnalyticsRepository(db DBTX) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Counts(ctx context.Context) (models.ImageCounts, error) {
	var counts models.ImageCounts
	if err := r.db.QueryRow(ctx, countsQuery).Scan(
		&counts.TotalImages,
		&counts.UniqueAuthors,
		&counts.AuthorsWithImages,
	); err != nil {
		return models.ImageCounts{}, err
	}
	return counts, nil
}

func (r *AnalyticsRepository) Timeline(ctx context.Context, limit int) ([]models.TimelineEntry, error) {
	rows, err := r.db.Query(ctx, timelineQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.TimelineEntry, 0, limit)
	for rows.Next() {
		var entry models.TimelineEntry
		if err := rows.Scan(&entry.UploadDate, &entry.Count); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *AnalyticsRepository) TopAuthors(ctx context.Context, limit int) ([]models.AuthorStat, error) {
	rows, err := r.db.Query(ctx, topAuthorsQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make([]models.AuthorStat, 0, limit)
	for rows.Next() {
		var stat models.AuthorStat
		if err := rows.Scan(&stat.Author, &stat.ImageCount); err != nil {
			return nil, err
		}
		authors = append(authors, stat)
	}
	return authors, rows.Err()
}

func (r *AnalyticsRepository) MostViewed(ctx context.Context, limit int) ([]models.PopularImage, error) {
	rows, err := r.db.Query(ctx, mostViewedQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	popular := make([]models.PopularImage, 0, limit)
	for rows.Next() {
		var image models.PopularImage
		if err := rows.Scan(&image.Name, &image.Views, &image.Path); err != nil {
			return nil, err
		}
		popular = append(popular, image)
	}
	return popular, rows.Err()
}
