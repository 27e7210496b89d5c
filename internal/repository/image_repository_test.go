package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirillGluhov/gallery-api/internal/models"
)

func TestImageRepository_Create(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO data`).
		WithArgs("sunset", "over the sea", "ann", "abc.jpg").
		WillReturnRows(pgxmock.NewRows([]string{"id", "views", "date"}).
			AddRow(int64(42), int64(0), created))

	image, err := NewImageRepository(mock).Create(context.Background(), models.Image{
		Name:        "sunset",
		Description: "over the sea",
		Author:      "ann",
		Path:        "abc.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), image.ID)
	assert.Equal(t, created, image.Date)
	assert.Equal(t, "abc.jpg", image.Path)
}

func TestImageRepository_ListReturnsEmptySlice(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM data ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "author", "path", "views", "date"}))

	images, err := NewImageRepository(mock).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestImageRepository_GetPathNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT path FROM data WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"path"}))

	_, err := NewImageRepository(mock).GetPath(context.Background(), 7)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestImageRepository_Delete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM data WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	affected, err := NewImageRepository(mock).Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestImageRepository_IncrementViews(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE data SET views = views \+ 1 WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewImageRepository(mock).IncrementViews(context.Background(), 3))
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE data SET views`).
			WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewImageRepository(mock).IncrementViews(context.Background(), 3)
		assert.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE data SET views`).
			WithArgs(int64(3)).
			WillReturnError(errors.New("deadlock"))

		err := NewImageRepository(mock).IncrementViews(context.Background(), 3)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrImageNotFound)
	})
}

func TestImageRepository_ListPaths(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT path FROM data`).
		WillReturnRows(pgxmock.NewRows([]string{"path"}).AddRow("a.jpg").AddRow("b.png"))

	paths, err := NewImageRepository(mock).ListPaths(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Contains(t, paths, "a.jpg")
}
