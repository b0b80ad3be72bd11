package models

import "time"

const MaxCommentLength = 1000

type Comment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photo_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentWithAuthor carries the commenting user's profile alongside the
// comment itself.
type CommentWithAuthor struct {
	Comment
	User *User `json:"user,omitempty"`
}
