package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"agrobooks-api/internal/model"
)

var ErrBookNotFound = errors.New("book not found")

// ListFilter narrows catalog listings.
type ListFilter struct {
	AuthorID   string
	CategoryID string
	Limit      int
	Offset     int
}

// BookRepository provides access to the book catalog.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	ByID(ctx context.Context, id string) (*model.Book, error)
	List(ctx context.Context, filter ListFilter) ([]model.Book, error)
	Update(ctx context.Context, book *model.Book) error
}

type bookRepository struct {
	db *sqlx.DB
}

// NewBookRepository creates a Postgres-backed book repository.
func NewBookRepository(db *sqlx.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (
			id, title, author_id, category_id, description, language, price,
			pdf_url, cover_image_url, cover_images, created_at, updated_at
		) VALUES (
			:id, :title, :author_id, :category_id, :description, :language, :price,
			:pdf_url, :cover_image_url, :cover_images, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, book)
	return err
}

func (r *bookRepository) ByID(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	err := r.db.GetContext(ctx, &book, `SELECT * FROM books WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, filter ListFilter) ([]model.Book, error) {
	var conditions []string
	var args []any

	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}

	query := `SELECT * FROM books`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	books := []model.Book{}
	err := r.db.SelectContext(ctx, &books, query, args...)
	return books, err
}

func (r *bookRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books SET
			title = :title,
			author_id = :author_id,
			category_id = :category_id,
			description = :description,
			language = :language,
			price = :price,
			pdf_url = :pdf_url,
			cover_image_url = :cover_image_url,
			cover_images = :cover_images,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, book)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrBookNotFound
	}
	return nil
}
