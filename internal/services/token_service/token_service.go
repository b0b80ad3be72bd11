package services

import (
	"context"
	"errors"
	"time"

	"photostream/internal/domain/models"
	libjwt "photostream/internal/lib/jwt"
	"photostream/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
)

const (
	AccessTokenExpire  = 15 * time.Minute
	RefreshTokenExpire = 7 * 24 * time.Hour
)

type TokenService struct {
	repo   repository.TokenRepository
	secret string
}

func NewTokenService(repo repository.TokenRepository, secret string) *TokenService {
	return &TokenService{repo: repo, secret: secret}
}

func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	accessToken, err := libjwt.NewToken(user, s.secret, AccessTokenExpire)
	if err != nil {
		return nil, err
	}

	refreshToken, err := libjwt.NewToken(user, s.secret, RefreshTokenExpire)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken, RefreshTokenExpire); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens rotates a refresh token: the presented token must still be
// recorded, gets revoked, and a fresh pair is issued.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(refreshToken, jwt.MapClaims{})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["uid"].(string)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}
	email, _ := claims["email"].(string)

	exists, err := s.repo.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil || !exists {
		return nil, ErrInvalidToken
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, err
	}

	return s.GenerateTokens(ctx, models.User{ID: userID, Email: email})
}

func (s *TokenService) RevokeToken(ctx context.Context, userID, refreshToken string) error {
	return s.repo.DeleteRefreshToken(ctx, userID, refreshToken)
}

func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAllUserTokens(ctx, userID)
}
