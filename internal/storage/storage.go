package storage

import "errors"

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlbumNotFound   = errors.New("album not found")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrCommentNotFound = errors.New("comment not found")
)

var (
	ErrNotOwner     = errors.New("caller does not own the resource")
	ErrWriteFailed  = errors.New("backend rejected the write")
	ErrUploadFailed = errors.New("upload rejected")
	ErrFileNotFound = errors.New("file not found")
)
