package models

import "time"

type Metadata map[string]interface{}

// Photo lives in an album. Likes holds the ids of users who liked the photo;
// LikeCount always mirrors len(Likes) and both are written together inside a
// single-document transaction.
type Photo struct {
	ID           string    `json:"id"`
	AlbumID      string    `json:"album_id"`
	UserID       string    `json:"user_id"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Likes        []string  `json:"likes"`
	LikeCount    int       `json:"like_count"`
	CreatedAt    time.Time `json:"created_at"`
	Metadata     Metadata  `json:"metadata,omitempty"`
}

// LikedBy reports whether userID is in the like set.
func (p *Photo) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// FeedPhoto is a photo enriched with its owning album and uploader profile
// for the cross-user feed.
type FeedPhoto struct {
	Photo
	Album *Album `json:"album,omitempty"`
	User  *User  `json:"user,omitempty"`
}
