package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"agrobooks-api/internal/model"
)

var ErrAuthorNotFound = errors.New("author not found")

// AuthorRepository resolves authors referenced by catalog entities.
type AuthorRepository interface {
	ByID(ctx context.Context, id string) (*model.Author, error)
}

type authorRepository struct {
	db *sqlx.DB
}

// NewAuthorRepository creates a Postgres-backed author repository.
func NewAuthorRepository(db *sqlx.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) ByID(ctx context.Context, id string) (*model.Author, error) {
	var author model.Author
	err := r.db.GetContext(ctx, &author, `SELECT * FROM authors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}
