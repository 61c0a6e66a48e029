package model

import "time"

// AudioBook is a narrated title. AudioURL points at the stored recording.
type AudioBook struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	AuthorID      string    `db:"author_id" json:"authorId"`
	CategoryID    string    `db:"category_id" json:"categoryId"`
	Description   *string   `db:"description" json:"description,omitempty"`
	Price         float64   `db:"price" json:"price"`
	AudioURL      string    `db:"audio_url" json:"audioUrl"`
	CoverImageURL *string   `db:"cover_image_url" json:"coverImageUrl,omitempty"`
	CoverImages   URLList   `db:"cover_images" json:"coverImages"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
