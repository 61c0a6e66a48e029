package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"agrobooks-api/internal/model"
)

var ErrCurriculumNotFound = errors.New("curriculum not found")

// CurriculumRepository provides access to curriculum documents.
type CurriculumRepository interface {
	Create(ctx context.Context, curriculum *model.Curriculum) error
	ByID(ctx context.Context, id string) (*model.Curriculum, error)
	List(ctx context.Context, grade string) ([]model.Curriculum, error)
	Update(ctx context.Context, curriculum *model.Curriculum) error
}

type curriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository creates a Postgres-backed curriculum repository.
func NewCurriculumRepository(db *sqlx.DB) CurriculumRepository {
	return &curriculumRepository{db: db}
}

func (r *curriculumRepository) Create(ctx context.Context, curriculum *model.Curriculum) error {
	query := `
		INSERT INTO curricula (
			id, title, grade, description, pdf_url, cover_image_url, created_at, updated_at
		) VALUES (
			:id, :title, :grade, :description, :pdf_url, :cover_image_url, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, curriculum)
	return err
}

func (r *curriculumRepository) ByID(ctx context.Context, id string) (*model.Curriculum, error) {
	var curriculum model.Curriculum
	err := r.db.GetContext(ctx, &curriculum, `SELECT * FROM curricula WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCurriculumNotFound
	}
	if err != nil {
		return nil, err
	}
	return &curriculum, nil
}

func (r *curriculumRepository) Update(ctx context.Context, curriculum *model.Curriculum) error {
	query := `
		UPDATE curricula SET
			title = :title,
			grade = :grade,
			description = :description,
			pdf_url = :pdf_url,
			cover_image_url = :cover_image_url,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, curriculum)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrCurriculumNotFound
	}
	return nil
}

func (r *curriculumRepository) List(ctx context.Context, grade string) ([]model.Curriculum, error) {
	query := `SELECT * FROM curricula`
	var args []any

	if grade != "" {
		args = append(args, grade)
		query += " WHERE grade = $1"
	}
	query += " ORDER BY grade, title"

	curricula := []model.Curriculum{}
	err := r.db.SelectContext(ctx, &curricula, query, args...)
	return curricula, err
}
