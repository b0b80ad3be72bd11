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

type CommentRepo struct {
	db docstore.Store
}

func NewCommentRepository(db docstore.Store) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) SaveComment(ctx context.Context, comment models.Comment) (string, error) {
	const op = "repository.comment_repository.SaveComment"

	id, err := r.db.Insert(ctx, colComments, map[string]interface{}{
		"photo_id":   comment.PhotoID,
		"user_id":    comment.UserID,
		"text":       comment.Text,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", op, err, storage.ErrWriteFailed)
	}

	return id, nil
}

func (r *CommentRepo) Comment(ctx context.Context, commentID string) (models.Comment, error) {
	const op = "repository.comment_repository.Comment"

	doc, err := r.db.FindByID(ctx, colComments, commentID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return commentFromDoc(doc), nil
}

// PhotoComments returns the photo's comments, oldest first.
func (r *CommentRepo) PhotoComments(ctx context.Context, photoID string) ([]models.Comment, error) {
	const op = "repository.comment_repository.PhotoComments"

	docs, err := r.db.Find(ctx, colComments, docstore.Query{
		Filters: []docstore.Filter{docstore.Where("photo_id", photoID)},
		SortBy:  "created_at",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments := make([]models.Comment, 0, len(docs))
	for _, doc := range docs {
		comments = append(comments, commentFromDoc(doc))
	}

	return comments, nil
}

func (r *CommentRepo) DeleteComment(ctx context.Context, commentID string) error {
	const op = "repository.comment_repository.DeleteComment"

	if err := r.db.Delete(ctx, colComments, commentID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func commentFromDoc(doc docstore.Document) models.Comment {
	return models.Comment{
		ID:        doc.ID(),
		PhotoID:   doc.String("photo_id"),
		UserID:    doc.String("user_id"),
		Text:      doc.String("text"),
		CreatedAt: doc.Time("created_at"),
	}
}
