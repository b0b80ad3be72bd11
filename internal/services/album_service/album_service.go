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
)

var ErrAlbumNotFound = errors.New("album not found")

type AlbumService struct {
	log         *slog.Logger
	albums      repository.AlbumRepository
	photos      repository.PhotoRepository
	fileStorage objectstore.Storage
}

func NewAlbumService(log *slog.Logger, albums repository.AlbumRepository, photos repository.PhotoRepository, fileStorage objectstore.Storage) *AlbumService {
	return &AlbumService{
		log:         log,
		albums:      albums,
		photos:      photos,
		fileStorage: fileStorage,
	}
}

func (s *AlbumService) CreateAlbum(ctx context.Context, input dto.CreateAlbumInput) (string, error) {
	const op = "album_service.CreateAlbum"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", input.UserID),
	)

	id, err := s.albums.SaveAlbum(ctx, models.Album{
		Title:       input.Title,
		Description: input.Description,
		UserID:      input.UserID,
		PhotoCount:  input.PhotoCount,
	})
	if err != nil {
		log.Error("failed to create album", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("album created", slog.String("album_id", id))

	return id, nil
}

func (s *AlbumService) Album(ctx context.Context, albumID string) (models.Album, error) {
	const op = "album_service.Album"

	album, err := s.albums.Album(ctx, albumID)
	if err != nil {
		if errors.Is(err, storage.ErrAlbumNotFound) {
			return models.Album{}, fmt.Errorf("%s: %w", op, ErrAlbumNotFound)
		}

		return models.Album{}, fmt.Errorf("%s: %w", op, err)
	}

	return album, nil
}

func (s *AlbumService) UserAlbums(ctx context.Context, userID string) ([]models.Album, error) {
	const op = "album_service.UserAlbums"

	albums, err := s.albums.UserAlbums(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return albums, nil
}

// DeleteAlbum removes the album document and every photo document referencing
// it, then best-effort-deletes the backing image objects. A storage deletion
// failure is logged and swallowed so it never blocks the document deletion;
// a dangling object is an accepted residual state.
func (s *AlbumService) DeleteAlbum(ctx context.Context, albumID string) error {
	const op = "album_service.DeleteAlbum"

	log := s.log.With(
		slog.String("op", op),
		slog.String("album_id", albumID),
	)

	photos, err := s.photos.AlbumPhotos(ctx, albumID)
	if err != nil {
		log.Error("failed to list album photos", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.albums.DeleteAlbum(ctx, albumID); err != nil {
		if errors.Is(err, storage.ErrAlbumNotFound) {
			return fmt.Errorf("%s: %w", op, ErrAlbumNotFound)
		}

		log.Error("failed to delete album", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.photos.DeleteAlbumPhotos(ctx, albumID); err != nil {
		log.Error("failed to delete album photos", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	for _, photo := range photos {
		if err := s.fileStorage.DeleteByURL(ctx, photo.ImageURL); err != nil {
			log.Warn("failed to delete image from storage",
				slog.String("photo_id", photo.ID),
				sl.Err(err),
			)
		}
	}

	log.Info("album deleted", slog.Int("photos_removed", len(photos)))

	return nil
}
