package models

import (
	"time"

	"agrobooks-api/internal/model"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// UploadResponse is returned after a successful direct binary upload.
type UploadResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	URL     string `json:"url"`
}

// UploadTicketResponse is returned for URL-generation requests: the client
// performs the PUT itself against UploadURL.
type UploadTicketResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Path      string    `json:"path"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadURLRequest is the JSON body of a URL-generation request.
type UploadURLRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Bucket   string `json:"bucket"`
	Folder   string `json:"folder"`
	AuthorID string `json:"author_id"`
}

// BookPayload is the JSON body for creating or updating a book. CoverImage
// and PDFFile accept embedded binary payloads in any supported shape; the
// URL fields accept already-uploaded locations instead.
type BookPayload struct {
	Title         string   `json:"title"`
	AuthorID      string   `json:"author_id"`
	CategoryID    string   `json:"category_id"`
	Description   *string  `json:"description"`
	Language      *string  `json:"language"`
	Price         float64  `json:"price"`
	PDFURL        string   `json:"pdf_url"`
	CoverImageURL *string  `json:"cover_image_url"`
	CoverImages   []string `json:"cover_images"`
	CoverImage    any      `json:"coverImage"`
	PDFFile       any      `json:"pdfFile"`
}

// AudioBookPayload is the JSON body for creating an audio-book.
type AudioBookPayload struct {
	Title         string   `json:"title"`
	AuthorID      string   `json:"author_id"`
	CategoryID    string   `json:"category_id"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price"`
	AudioURL      string   `json:"audio_url"`
	CoverImageURL *string  `json:"cover_image_url"`
	CoverImages   []string `json:"cover_images"`
	CoverImage    any      `json:"coverImage"`
	AudioFile     any      `json:"audioFile"`
}

// CurriculumPayload is the JSON body for creating a curriculum document.
type CurriculumPayload struct {
	Title         string  `json:"title"`
	Grade         string  `json:"grade"`
	Description   *string `json:"description"`
	PDFURL        string  `json:"pdf_url"`
	CoverImageURL *string `json:"cover_image_url"`
	PDFFile       any     `json:"pdfFile"`
	CoverImage    any     `json:"coverImage"`
}

// ProfilePayload is the JSON body for updating a profile.
type ProfilePayload struct {
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Avatar   any     `json:"avatar"`
}

// PurchasePayload is the JSON body for recording a purchase.
type PurchasePayload struct {
	BuyerID  string  `json:"buyer_id"`
	ItemID   string  `json:"item_id"`
	ItemType string  `json:"item_type"`
	Price    float64 `json:"price"`
}

// BookView is a book joined with its author and category names.
type BookView struct {
	model.Book
	AuthorName   string `json:"authorName,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// BookResponse wraps a single book.
type BookResponse struct {
	Book BookView `json:"book"`
}

// BookListResponse wraps a book listing.
type BookListResponse struct {
	Books []BookView `json:"books"`
	Total int        `json:"total"`
}

// AudioBookView is an audio-book joined with its author and category names.
type AudioBookView struct {
	model.AudioBook
	AuthorName   string `json:"authorName,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// AudioBookResponse wraps a single audio-book.
type AudioBookResponse struct {
	AudioBook AudioBookView `json:"audioBook"`
}

// AudioBookListResponse wraps an audio-book listing.
type AudioBookListResponse struct {
	AudioBooks []AudioBookView `json:"audioBooks"`
	Total      int             `json:"total"`
}

// CurriculumResponse wraps a single curriculum document.
type CurriculumResponse struct {
	Curriculum model.Curriculum `json:"curriculum"`
}

// CurriculumListResponse wraps a curriculum listing.
type CurriculumListResponse struct {
	Curricula []model.Curriculum `json:"curricula"`
	Total     int                `json:"total"`
}

// ProfileResponse wraps a single profile.
type ProfileResponse struct {
	Profile model.Profile `json:"profile"`
}

// PurchaseResponse wraps a single purchase.
type PurchaseResponse struct {
	Purchase model.Purchase `json:"purchase"`
}

// PurchaseListResponse wraps a purchase listing.
type PurchaseListResponse struct {
	Purchases []model.Purchase `json:"purchases"`
	Total     int              `json:"total"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Uptime   string            `json:"uptime"`
	Services map[string]string `json:"services"`
}

// APIInfo describes the service and its endpoints.
type APIInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
