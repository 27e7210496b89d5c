package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/KirillGluhov/gallery-api/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

type ImageRepository struct {
	db DBTX
}

func NewImageRepository(db DBTX) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, image models.Image) (models.Image, error) {
	const query = `
		INSERT INTO data (name, description, author, path)
		VALUES ($1, $2, $3, $4)
		RETURNING id, views, "date"
	`

	row := r.db.QueryRow(ctx, query, image.Name, image.Description, image.Author, image.Path)
	if err := row.Scan(&image.ID, &image.Views, &image.Date); err != nil {
		return models.Image{}, err
	}
	return image, nil
}

func (r *ImageRepository) List(ctx context.Context) ([]models.Image, error) {
	const query = `
		SELECT id, name, description, author, path, views, "date"
		FROM data
		ORDER BY id
	`
	return r.list(ctx, query)
}

func (r *ImageRepository) ListRecent(ctx context.Context) ([]models.Image, error) {
	const query = `
		SELECT id, name, description, author, path, views, "date"
		FROM data
		ORDER BY "date" DESC
	`
	return r.list(ctx, query)
}

func (r *ImageRepository) list(ctx context.Context, query string) ([]models.Image, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]models.Image, 0)
	for rows.Next() {
		var image models.Image
		if err := rows.Scan(
			&image.ID,
			&image.Name,
			&image.Description,
			&image.Author,
			&image.Path,
			&image.Views,
			&image.Date,
		); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *ImageRepository) GetPath(ctx context.Context, id int64) (string, error) {
	const query = `SELECT path FROM data WHERE id = $1`

	var path string
	if err := r.db.QueryRow(ctx, query, id).Scan(&path); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrImageNotFound
		}
		return "", err
	}
	return path, nil
}

// Delete reports the number of removed rows; zero means a concurrent delete won.
func (r *ImageRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM data WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ImageRepository) IncrementViews(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE data SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) ListPaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT path FROM data`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths[path] = struct{}{}
	}
	return paths, rows.Err()
}
