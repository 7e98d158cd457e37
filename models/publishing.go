package models

import "time"

// Domain types: publishing catalog

type Author struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	ISBN        *string    `json:"isbn,omitempty"`
	Genre       string     `json:"genre"`
	Status      string     `json:"status"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Chapter struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Body      string    `json:"body"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

type PublishingStore struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type StorePublication struct {
	BookID      string     `json:"book_id"`
	StoreID     string     `json:"store_id"`
	StoreName   string     `json:"store_name,omitempty"`
	Status      string     `json:"status"`
	ExternalID  *string    `json:"external_id,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Request types

type UpsertAuthorRequest struct {
	UserID *string `json:"user_id,omitempty"`
	Name   string  `json:"name"`
	Bio    string  `json:"bio"`
}

type UpsertBookRequest struct {
	AuthorID string  `json:"author_id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	ISBN     *string `json:"isbn,omitempty"`
	Genre    string  `json:"genre"`
	CoverURL *string `json:"cover_url,omitempty"`
}

type UpsertChapterRequest struct {
	Title    string `json:"title"`
	Position int    `json:"position"`
	Body     string `json:"body"`
}

type UpsertStoreRequest struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

type PublishToStoresRequest struct {
	StoreIDs []string `json:"store_ids"`
}

type UpdatePublicationRequest struct {
	Status     string  `json:"status"`
	ExternalID *string `json:"external_id,omitempty"`
}
