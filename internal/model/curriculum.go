package model

import "time"

// Curriculum is a grade-level teaching document.
type Curriculum struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Grade         string    `db:"grade" json:"grade"`
	Description   *string   `db:"description" json:"description,omitempty"`
	PDFURL        string    `db:"pdf_url" json:"pdfUrl"`
	CoverImageURL *string   `db:"cover_image_url" json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
