package model

import "time"

// Book is an e-book in the catalog. PDFURL points at the stored document;
// CoverImageURL mirrors the first entry of CoverImages for older clients.
type Book struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	AuthorID      string    `db:"author_id" json:"authorId"`
	CategoryID    string    `db:"category_id" json:"categoryId"`
	Description   *string   `db:"description" json:"description,omitempty"`
	Language      *string   `db:"language" json:"language,omitempty"`
	Price         float64   `db:"price" json:"price"`
	PDFURL        string    `db:"pdf_url" json:"pdfUrl"`
	CoverImageURL *string   `db:"cover_image_url" json:"coverImageUrl,omitempty"`
	CoverImages   URLList   `db:"cover_images" json:"coverImages"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
