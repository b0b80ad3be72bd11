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
	"photostream/internal/transport/http/dto"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrUserNotFound       = errors.New("user not found")
)

type TokenIssuer interface {
	GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error)
	RevokeToken(ctx context.Context, userID, refreshToken string) error
}

// SessionNotifier receives sign-in/sign-out events; the session provider
// implements it.
type SessionNotifier interface {
	SetAuthenticated(ctx context.Context, userID, email string)
	Clear()
}

type UserService struct {
	log     *slog.Logger
	repo    repository.UserRepository
	tokens  TokenIssuer
	session SessionNotifier
}

func NewUserService(log *slog.Logger, repo repository.UserRepository, tokens TokenIssuer, session SessionNotifier) *UserService {
	return &UserService{
		log:     log,
		repo:    repo,
		tokens:  tokens,
		session: session,
	}
}

// RegisterNewUser creates the profile document; the username doubles as the
// initial display name.
func (s *UserService) RegisterNewUser(ctx context.Context, input dto.UserRegisterInput) (string, error) {
	const op = "user_service.RegisterNewUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", input.Email),
	)

	log.Info("register user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.SaveUser(ctx, models.User{
		Username:    input.Username,
		DisplayName: input.Username,
		Email:       input.Email,
		PassHash:    passHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exist", sl.Err(err))

			return "", fmt.Errorf("%s: %w", op, ErrUserExist)
		}

		log.Error("failed to save user", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.session.SetAuthenticated(ctx, id, input.Email)

	log.Info("user registered", slog.String("user_id", id))

	return id, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "user_service.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.session.SetAuthenticated(ctx, user.ID, user.Email)

	log.Info("user logged in successfully")

	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID, refreshToken string) error {
	const op = "user_service.Logout"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID),
	)

	if err := s.tokens.RevokeToken(ctx, userID, refreshToken); err != nil {
		log.Error("failed to revoke refresh token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	s.session.Clear()

	log.Info("user logged out")

	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (models.User, error) {
	const op = "user_service.Profile"

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
