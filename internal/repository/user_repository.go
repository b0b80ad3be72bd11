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

type UserRepo struct {
	db docstore.Store
}

func NewUserRepository(db docstore.Store) *UserRepo {
	return &UserRepo{db: db}
}

// SaveUser writes the profile document for a newly registered user. Emails
// are unique across the collection.
func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (string, error) {
	const op = "repository.user_repository.SaveUser"

	existing, err := r.db.Find(ctx, colUsers, docstore.Query{
		Filters: []docstore.Filter{docstore.Where("email", user.Email)},
		Limit:   1,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		return "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}

	id, err := r.db.Insert(ctx, colUsers, map[string]interface{}{
		"username":     user.Username,
		"display_name": user.DisplayName,
		"email":        user.Email,
		"pass_hash":    user.PassHash,
		"created_at":   time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", op, err, storage.ErrWriteFailed)
	}

	return id, nil
}

func (r *UserRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "repository.user_repository.UserByEmail"

	docs, err := r.db.Find(ctx, colUsers, docstore.Query{
		Filters: []docstore.Filter{docstore.Where("email", email)},
		Limit:   1,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(docs) == 0 {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return userFromDoc(docs[0]), nil
}

func (r *UserRepo) UserByID(ctx context.Context, userID string) (models.User, error) {
	const op = "repository.user_repository.UserByID"

	doc, err := r.db.FindByID(ctx, colUsers, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return userFromDoc(doc), nil
}

// UsersByIDs resolves each id with an individual lookup (de-duplicated);
// absent users are missing from the result, not an error.
func (r *UserRepo) UsersByIDs(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	const op = "repository.user_repository.UsersByIDs"

	out := make(map[string]models.User, len(userIDs))
	for _, id := range userIDs {
		if _, ok := out[id]; ok {
			continue
		}
		doc, err := r.db.FindByID(ctx, colUsers, id)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[id] = userFromDoc(doc)
	}

	return out, nil
}

func userFromDoc(doc docstore.Document) models.User {
	return models.User{
		ID:          doc.ID(),
		Username:    doc.String("username"),
		DisplayName: doc.String("display_name"),
		Email:       doc.String("email"),
		PassHash:    passHash(doc),
		CreatedAt:   doc.Time("created_at"),
	}
}

func passHash(doc docstore.Document) []byte {
	switch v := doc["pass_hash"].(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	}
	return nil
}
