package repository

import (
	"context"
	"time"

	"photostream/internal/domain/models"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (string, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, userID string) (models.User, error)
	// UsersByIDs is batch-shaped so call sites stay put if the per-row
	// lookups underneath ever get replaced with a real batch read.
	UsersByIDs(ctx context.Context, userIDs []string) (map[string]models.User, error)
}

type AlbumRepository interface {
	SaveAlbum(ctx context.Context, album models.Album) (string, error)
	Album(ctx context.Context, albumID string) (models.Album, error)
	UserAlbums(ctx context.Context, userID string) ([]models.Album, error)
	AlbumsByIDs(ctx context.Context, albumIDs []string) (map[string]models.Album, error)
	SetCoverURL(ctx context.Context, albumID, coverURL string) error
	DeleteAlbum(ctx context.Context, albumID string) error
}

type PhotoRepository interface {
	SavePhoto(ctx context.Context, photo models.Photo) (string, error)
	Photo(ctx context.Context, photoID string) (models.Photo, error)
	AlbumPhotos(ctx context.Context, albumID string) ([]models.Photo, error)
	RecentPhotos(ctx context.Context, limit int) ([]models.Photo, error)
	ToggleLike(ctx context.Context, photoID, userID string) (bool, error)
	DeletePhoto(ctx context.Context, photoID string) error
	DeleteAlbumPhotos(ctx context.Context, albumID string) error
}

type CommentRepository interface {
	SaveComment(ctx context.Context, comment models.Comment) (string, error)
	Comment(ctx context.Context, commentID string) (models.Comment, error)
	PhotoComments(ctx context.Context, photoID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
