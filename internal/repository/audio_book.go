package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"agrobooks-api/internal/model"
)

var ErrAudioBookNotFound = errors.New("audio book not found")

// AudioBookRepository provides access to the audio-book catalog.
type AudioBookRepository interface {
	Create(ctx context.Context, audioBook *model.AudioBook) error
	ByID(ctx context.Context, id string) (*model.AudioBook, error)
	List(ctx context.Context, filter ListFilter) ([]model.AudioBook, error)
	Update(ctx context.Context, audioBook *model.AudioBook) error
}

type audioBookRepository struct {
	db *sqlx.DB
}

// NewAudioBookRepository creates a Postgres-backed audio-book repository.
func NewAudioBookRepository(db *sqlx.DB) AudioBookRepository {
	return &audioBookRepository{db: db}
}

func (r *audioBookRepository) Create(ctx context.Context, audioBook *model.AudioBook) error {
	query := `
		INSERT INTO audio_books (
			id, title, author_id, category_id, description, price,
			audio_url, cover_image_url, cover_images, created_at, updated_at
		) VALUES (
			:id, :title, :author_id, :category_id, :description, :price,
			:audio_url, :cover_image_url, :cover_images, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, audioBook)
	return err
}

func (r *audioBookRepository) ByID(ctx context.Context, id string) (*model.AudioBook, error) {
	var audioBook model.AudioBook
	err := r.db.GetContext(ctx, &audioBook, `SELECT * FROM audio_books WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAudioBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &audioBook, nil
}

func (r *audioBookRepository) Update(ctx context.Context, audioBook *model.AudioBook) error {
	query := `
		UPDATE audio_books SET
			title = :title,
			author_id = :author_id,
			category_id = :category_id,
			description = :description,
			price = :price,
			audio_url = :audio_url,
			cover_image_url = :cover_image_url,
			cover_images = :cover_images,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, audioBook)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrAudioBookNotFound
	}
	return nil
}

func (r *audioBookRepository) List(ctx context.Context, filter ListFilter) ([]model.AudioBook, error) {
	query := `SELECT * FROM audio_books`
	var args []any

	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		query += " WHERE author_id = $1"
	}
	query += " ORDER BY created_at DESC"

	audioBooks := []model.AudioBook{}
	err := r.db.SelectContext(ctx, &audioBooks, query, args...)
	return audioBooks, err
}
