package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"photostream/internal/domain/models"
	"photostream/internal/lib/logger/sl"
	"photostream/internal/repository"
	"photostream/internal/storage"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotOwner        = errors.New("caller does not own the comment")
	ErrEmptyComment    = errors.New("comment text is empty")
	ErrCommentTooLong  = errors.New("comment text too long")
)

type CommentService struct {
	log      *slog.Logger
	comments repository.CommentRepository
	users    repository.UserRepository
}

func NewCommentService(log *slog.Logger, comments repository.CommentRepository, users repository.UserRepository) *CommentService {
	return &CommentService{
		log:      log,
		comments: comments,
		users:    users,
	}
}

func (s *CommentService) AddComment(ctx context.Context, photoID, userID, text string) (models.Comment, error) {
	const op = "comment_service.AddComment"

	log := s.log.With(
		slog.String("op", op),
		slog.String("photo_id", photoID),
		slog.String("user_id", userID),
	)

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, fmt.Errorf("%s: %w", op, ErrEmptyComment)
	}
	if len(text) > models.MaxCommentLength {
		return models.Comment{}, fmt.Errorf("%s: %w", op, ErrCommentTooLong)
	}

	comment := models.Comment{
		PhotoID: photoID,
		UserID:  userID,
		Text:    text,
	}

	id, err := s.comments.SaveComment(ctx, comment)
	if err != nil {
		log.Error("failed to save comment", sl.Err(err))

		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.comments.Comment(ctx, id)
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("comment added", slog.String("comment_id", id))

	return saved, nil
}

// PhotoComments returns the photo's comments oldest first, each enriched with
// the commenting user's profile.
func (s *CommentService) PhotoComments(ctx context.Context, photoID string) ([]models.CommentWithAuthor, error) {
	const op = "comment_service.PhotoComments"

	comments, err := s.comments.PhotoComments(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	userIDs := make([]string, 0, len(comments))
	for _, comment := range comments {
		userIDs = append(userIDs, comment.UserID)
	}

	users, err := s.users.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.CommentWithAuthor, 0, len(comments))
	for _, comment := range comments {
		entry := models.CommentWithAuthor{Comment: comment}
		if user, ok := users[comment.UserID]; ok {
			entry.User = &user
		}
		out = append(out, entry)
	}

	return out, nil
}

// DeleteComment removes the comment, but only for its author.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID string) error {
	const op = "comment_service.DeleteComment"

	log := s.log.With(
		slog.String("op", op),
		slog.String("comment_id", commentID),
		slog.String("user_id", userID),
	)

	comment, err := s.comments.Comment(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			return fmt.Errorf("%s: %w", op, ErrCommentNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if comment.UserID != userID {
		log.Warn("delete rejected: caller is not the author")

		return fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		log.Error("failed to delete comment", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("comment deleted")

	return nil
}
