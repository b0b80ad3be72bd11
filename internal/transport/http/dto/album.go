package dto

type CreateAlbumInput struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	PhotoCount  int    `json:"photo_count" validate:"min=0"`

	// UserID comes from the caller's token, not the request body.
	UserID string `json:"-"`
}
