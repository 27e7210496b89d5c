package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestAnalyticsRepository_Counts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`COUNT\(DISTINCT author\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "count", "count"}).
			AddRow(int64(10), int64(5), int64(4)))

	counts, err := NewAnalyticsRepository(mock).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), counts.TotalImages)
	assert.Equal(t, int64(5), counts.UniqueAuthors)
	assert.Equal(t, int64(4), counts.AuthorsWithImages)
}

func TestAnalyticsRepository_CountsError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`COUNT\(DISTINCT author\)`).WillReturnError(errors.New("connection reset"))

	_, err := NewAnalyticsRepository(mock).Counts(context.Background())
	require.EqualError(t, err, "connection reset")
}

func TestAnalyticsRepository_TimelinePassesLimit(t *testing.T) {
	mock := newMock(t)
	day1 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`GROUP BY upload_date ORDER BY upload_date DESC LIMIT \$1`).
		WithArgs(30).
		WillReturnRows(pgxmock.NewRows([]string{"upload_date", "count"}).
			AddRow(day1, int64(3)).
			AddRow(day2, int64(1)))

	entries, err := NewAnalyticsRepository(mock).Timeline(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, day1, entries[0].UploadDate)
	assert.Equal(t, int64(3), entries[0].Count)
	assert.Equal(t, day2, entries[1].UploadDate)
}

func TestAnalyticsRepository_TopAuthorsExcludesEmptyInQuery(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE author IS NOT NULL AND author <> '' GROUP BY author`).
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows([]string{"author", "image_count"}).
			AddRow("ann", int64(7)).
			AddRow("bob", int64(2)))

	authors, err := NewAnalyticsRepository(mock).TopAuthors(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "ann", authors[0].Author)
	assert.Equal(t, int64(7), authors[0].ImageCount)
}

func TestAnalyticsRepository_MostViewedEmpty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`ORDER BY views DESC`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"name", "views", "path"}))

	popular, err := NewAnalyticsRepository(mock).MostViewed(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, popular)
	assert.Empty(t, popular)
}
