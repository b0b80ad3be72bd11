package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photostream/internal/docstore"
	"photostream/internal/domain/models"
	"photostream/internal/storage"
)

type PhotoRepo struct {
	db docstore.Store
}

func NewPhotoRepository(db docstore.Store) *PhotoRepo {
	return &PhotoRepo{db: db}
}

// SavePhoto writes a new photo document with an empty like set, zero like
// count and a server-side timestamp.
func (r *PhotoRepo) SavePhoto(ctx context.Context, photo models.Photo) (string, error) {
	const op = "repository.photo_repository.SavePhoto"

	id, err := r.db.Insert(ctx, colPhotos, map[string]interface{}{
		"album_id":      photo.AlbumID,
		"user_id":       photo.UserID,
		"image_url":     photo.ImageURL,
		"thumbnail_url": photo.ThumbnailURL,
		"likes":         []string{},
		"like_count":    0,
		"created_at":    time.Now().UTC(),
		"metadata":      map[string]interface{}(photo.Metadata),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", op, err, storage.ErrWriteFailed)
	}

	return id, nil
}

func (r *PhotoRepo) Photo(ctx context.Context, photoID string) (models.Photo, error) {
	const op = "repository.photo_repository.Photo"

	doc, err := r.db.FindByID(ctx, colPhotos, photoID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return photoFromDoc(doc), nil
}

// AlbumPhotos returns the album's photos, oldest first.
func (r *PhotoRepo) AlbumPhotos(ctx context.Context, albumID string) ([]models.Photo, error) {
	const op = "repository.photo_repository.AlbumPhotos"

	docs, err := r.db.Find(ctx, colPhotos, docstore.Query{
		Filters: []docstore.Filter{docstore.Where("album_id", albumID)},
		SortBy:  "created_at",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photos := make([]models.Photo, 0, len(docs))
	for _, doc := range docs {
		photos = append(photos, photoFromDoc(doc))
	}

	return photos, nil
}

// RecentPhotos returns the newest photos across all albums.
func (r *PhotoRepo) RecentPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	const op = "repository.photo_repository.RecentPhotos"

	docs, err := r.db.Find(ctx, colPhotos, docstore.Query{
		SortBy: "created_at",
		Desc:   true,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photos := make([]models.Photo, 0, len(docs))
	for _, doc := range docs {
		photos = append(photos, photoFromDoc(doc))
	}

	return photos, nil
}

// ToggleLike flips userID's membership in the photo's like set and keeps
// like_count equal to the set size, all inside the store's single-document
// transaction. It returns the resulting membership: true when the photo is
// now liked by userID.
func (r *PhotoRepo) ToggleLike(ctx context.Context, photoID, userID string) (bool, error) {
	const op = "repository.photo_repository.ToggleLike"

	var nowLiked bool
	err := r.db.UpdateByID(ctx, colPhotos, photoID, func(doc docstore.Document) docstore.Document {
		likes := doc.Strings("likes")

		updated := make([]string, 0, len(likes)+1)
		wasLiked := false
		for _, id := range likes {
			if id == userID {
				wasLiked = true
				continue
			}
			updated = append(updated, id)
		}
		if !wasLiked {
			updated = append(updated, userID)
		}

		doc["likes"] = updated
		doc["like_count"] = len(updated)
		nowLiked = !wasLiked
		return doc
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return nowLiked, nil
}

func (r *PhotoRepo) DeletePhoto(ctx context.Context, photoID string) error {
	const op = "repository.photo_repository.DeletePhoto"

	if err := r.db.Delete(ctx, colPhotos, photoID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteAlbumPhotos removes every photo document referencing albumID in one
// matching delete.
func (r *PhotoRepo) DeleteAlbumPhotos(ctx context.Context, albumID string) error {
	const op = "repository.photo_repository.DeleteAlbumPhotos"

	if err := r.db.DeleteMatching(ctx, colPhotos, docstore.Where("album_id", albumID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func photoFromDoc(doc docstore.Document) models.Photo {
	return models.Photo{
		ID:           doc.ID(),
		AlbumID:      doc.String("album_id"),
		UserID:       doc.String("user_id"),
		ImageURL:     doc.String("image_url"),
		ThumbnailURL: doc.String("thumbnail_url"),
		Likes:        doc.Strings("likes"),
		LikeCount:    int(doc.Int64("like_count")),
		CreatedAt:    doc.Time("created_at"),
		Metadata:     models.Metadata(doc.Map("metadata")),
	}
}
