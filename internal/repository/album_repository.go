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

const (
	// collections
	colUsers    = "users"
	colAlbums   = "albums"
	colPhotos   = "photos"
	colComments = "comments"
)

type AlbumRepo struct {
	db docstore.Store
}

func NewAlbumRepository(db docstore.Store) *AlbumRepo {
	return &AlbumRepo{db: db}
}

func (r *AlbumRepo) SaveAlbum(ctx context.Context, album models.Album) (string, error) {
	const op = "repository.album_repository.SaveAlbum"

	now := time.Now().UTC()
	id, err := r.db.Insert(ctx, colAlbums, map[string]interface{}{
		"title":       album.Title,
		"description": album.Description,
		"user_id":     album.UserID,
		"photo_count": album.PhotoCount,
		"cover_url":   album.CoverURL,
		"created_at":  now,
		"updated_at":  now,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", op, err, storage.ErrWriteFailed)
	}

	return id, nil
}

func (r *AlbumRepo) Album(ctx context.Context, albumID string) (models.Album, error) {
	const op = "repository.album_repository.Album"

	doc, err := r.db.FindByID(ctx, colAlbums, albumID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Album{}, fmt.Errorf("%s: %w", op, storage.ErrAlbumNotFound)
		}
		return models.Album{}, fmt.Errorf("%s: %w", op, err)
	}

	return albumFromDoc(doc), nil
}

// UserAlbums returns the owner's albums, newest first.
func (r *AlbumRepo) UserAlbums(ctx context.Context, userID string) ([]models.Album, error) {
	const op = "repository.album_repository.UserAlbums"

	docs, err := r.db.Find(ctx, colAlbums, docstore.Query{
		Filters: []docstore.Filter{docstore.Where("user_id", userID)},
		SortBy:  "created_at",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	albums := make([]models.Album, 0, len(docs))
	for _, doc := range docs {
		albums = append(albums, albumFromDoc(doc))
	}

	return albums, nil
}

// AlbumsByIDs resolves each id with an individual lookup; absent albums are
// simply missing from the result, not an error.
func (r *AlbumRepo) AlbumsByIDs(ctx context.Context, albumIDs []string) (map[string]models.Album, error) {
	const op = "repository.album_repository.AlbumsByIDs"

	out := make(map[string]models.Album, len(albumIDs))
	for _, id := range albumIDs {
		if _, ok := out[id]; ok {
			continue
		}
		doc, err := r.db.FindByID(ctx, colAlbums, id)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[id] = albumFromDoc(doc)
	}

	return out, nil
}

func (r *AlbumRepo) SetCoverURL(ctx context.Context, albumID, coverURL string) error {
	const op = "repository.album_repository.SetCoverURL"

	err := r.db.UpdateByID(ctx, colAlbums, albumID, func(doc docstore.Document) docstore.Document {
		if doc.String("cover_url") == "" {
			doc["cover_url"] = coverURL
			doc["updated_at"] = time.Now().UTC()
		}
		return doc
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlbumNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *AlbumRepo) DeleteAlbum(ctx context.Context, albumID string) error {
	const op = "repository.album_repository.DeleteAlbum"

	if err := r.db.Delete(ctx, colAlbums, albumID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlbumNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func albumFromDoc(doc docstore.Document) models.Album {
	return models.Album{
		ID:          doc.ID(),
		Title:       doc.String("title"),
		Description: doc.String("description"),
		UserID:      doc.String("user_id"),
		PhotoCount:  int(doc.Int64("photo_count")),
		CoverURL:    doc.String("cover_url"),
		CreatedAt:   doc.Time("created_at"),
		UpdatedAt:   doc.Time("updated_at"),
	}
}
