package dto

import "mime/multipart"

type PhotoUploadInput struct {
	AlbumID string                `json:"album_id" form:"album_id" validate:"required"`
	File    *multipart.FileHeader `json:"-" form:"file" validate:"required"`

	// UserID comes from the caller's token, not the request body.
	UserID string `json:"-"`
}

type ToggleLikeResponse struct {
	PhotoID string `json:"photo_id"`
	Liked   bool   `json:"liked"`
}
