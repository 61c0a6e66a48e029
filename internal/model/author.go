package model

import "time"

// Author is a book or audio-book author.
type Author struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Bio       *string   `db:"bio" json:"bio,omitempty"`
	AvatarURL *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
