package models

import "time"

// Album is a named collection of photos owned by one user. PhotoCount and
// CoverURL are denormalized projections of the album's photos.
type Album struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id"`
	PhotoCount  int       `json:"photo_count"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
