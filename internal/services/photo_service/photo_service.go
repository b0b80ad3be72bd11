package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"photostream/internal/domain/models"
	"photostream/internal/lib/logger/sl"
	"photostream/internal/repository"
	"photostream/internal/storage"
	"photostream/internal/storage/objectstore"
	"photostream/internal/transport/http/dto"

	"github.com/google/uuid"
)

var (
	ErrAlbumNotFound = errors.New("album not found")
	ErrPhotoNotFound = errors.New("photo not found")
)

const DefaultFeedLimit = 50

type PhotoService struct {
	log         *slog.Logger
	photos      repository.PhotoRepository
	albums      repository.AlbumRepository
	users       repository.UserRepository
	fileStorage objectstore.Storage
}

func NewPhotoService(log *slog.Logger, photos repository.PhotoRepository, albums repository.AlbumRepository, users repository.UserRepository, fileStorage objectstore.Storage) *PhotoService {
	return &PhotoService{
		log:         log,
		photos:      photos,
		albums:      albums,
		users:       users,
		fileStorage: fileStorage,
	}
}

// UploadPhoto streams the image to object storage under photos/{id}, then
// writes the photo document. The thumbnail URL mirrors the image URL; no
// thumbnailing happens here. If the document write fails, the just-uploaded
// object is removed again on a best-effort basis.
func (s *PhotoService) UploadPhoto(ctx context.Context, input dto.PhotoUploadInput) (models.Photo, error) {
	const op = "photo_service.UploadPhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.String("album_id", input.AlbumID),
		slog.String("user_id", input.UserID),
	)

	log.Info("upload photo")

	// the album must exist before a photo may reference it
	if _, err := s.albums.Album(ctx, input.AlbumID); err != nil {
		if errors.Is(err, storage.ErrAlbumNotFound) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, ErrAlbumNotFound)
		}

		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	src, err := input.File.Open()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	key := "photos/" + uuid.NewString()

	imageURL, err := s.fileStorage.Upload(ctx, key, src, input.File.Size, input.File.Header.Get("Content-Type"))
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))

		return models.Photo{}, fmt.Errorf("%s: %v: %w", op, err, storage.ErrUploadFailed)
	}

	photo := models.Photo{
		AlbumID:      input.AlbumID,
		UserID:       input.UserID,
		ImageURL:     imageURL,
		ThumbnailURL: imageURL,
		Metadata: models.Metadata{
			"original_name": input.File.Filename,
			"size":          input.File.Size,
		},
	}

	id, err := s.photos.SavePhoto(ctx, photo)
	if err != nil {
		// keep storage consistent with the document store
		if delErr := s.fileStorage.DeleteByURL(ctx, imageURL); delErr != nil {
			log.Warn("failed to delete orphaned image", sl.Err(delErr))
		}
		log.Error("failed to save photo document", sl.Err(err))

		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.albums.SetCoverURL(ctx, input.AlbumID, imageURL); err != nil {
		log.Warn("failed to set album cover", sl.Err(err))
	}

	saved, err := s.photos.Photo(ctx, id)
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("photo uploaded", slog.String("photo_id", id))

	return saved, nil
}

func (s *PhotoService) Photo(ctx context.Context, photoID string) (models.Photo, error) {
	const op = "photo_service.Photo"

	photo, err := s.photos.Photo(ctx, photoID)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return photo, nil
}

func (s *PhotoService) AlbumPhotos(ctx context.Context, albumID string) ([]models.Photo, error) {
	const op = "photo_service.AlbumPhotos"

	photos, err := s.photos.AlbumPhotos(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// DeletePhoto removes the photo document, then best-effort-deletes the
// backing image object (failure logged, not propagated).
func (s *PhotoService) DeletePhoto(ctx context.Context, photoID, imageURL string) error {
	const op = "photo_service.DeletePhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.String("photo_id", photoID),
	)

	if err := s.photos.DeletePhoto(ctx, photoID); err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if imageURL != "" {
		if err := s.fileStorage.DeleteByURL(ctx, imageURL); err != nil {
			log.Warn("failed to delete image from storage", sl.Err(err))
		}
	}

	log.Info("photo deleted")

	return nil
}

// ToggleLike flips userID's like on the photo and reports the resulting
// membership. Concurrent toggles are serialized by the document store's
// transaction; no update is lost.
func (s *PhotoService) ToggleLike(ctx context.Context, photoID, userID string) (bool, error) {
	const op = "photo_service.ToggleLike"

	liked, err := s.photos.ToggleLike(ctx, photoID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return false, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return liked, nil
}

// Feed returns the most recent photos across all albums, newest first, each
// enriched with its owning album and uploader profile.
func (s *PhotoService) Feed(ctx context.Context, limit int) ([]models.FeedPhoto, error) {
	const op = "photo_service.Feed"

	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	photos, err := s.photos.RecentPhotos(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	albumIDs := make([]string, 0, len(photos))
	userIDs := make([]string, 0, len(photos))
	for _, photo := range photos {
		albumIDs = append(albumIDs, photo.AlbumID)
		userIDs = append(userIDs, photo.UserID)
	}

	albums, err := s.albums.AlbumsByIDs(ctx, albumIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := s.users.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	feed := make([]models.FeedPhoto, 0, len(photos))
	for _, photo := range photos {
		entry := models.FeedPhoto{Photo: photo}
		if album, ok := albums[photo.AlbumID]; ok {
			entry.Album = &album
		}
		if user, ok := users[photo.UserID]; ok {
			entry.User = &user
		}
		feed = append(feed, entry)
	}

	return feed, nil
}
