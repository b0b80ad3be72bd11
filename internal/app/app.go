package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "photostream/internal/app/http"
	"photostream/internal/config"
	"photostream/internal/docstore/cloverstore"
	"photostream/internal/repository"
	albumsvc "photostream/internal/services/album_service"
	commentsvc "photostream/internal/services/comment_service"
	photosvc "photostream/internal/services/photo_service"
	"photostream/internal/services/session"
	tokensvc "photostream/internal/services/token_service"
	usersvc "photostream/internal/services/user_service"
	"photostream/internal/storage/objectstore"
	redisapp "photostream/internal/storage/redis"
	httprouters "photostream/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Session    *session.Provider

	store *cloverstore.Store
	redis *redisapp.Client
}

func New(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	store, err := cloverstore.Open(cfg.StoragePath, "users", "albums", "photos", "comments")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fileStorage, err := objectstore.NewMinioStorage(context.Background(), objectstore.Config{
		Endpoint:        cfg.ObjectStorage.Endpoint,
		AccessKeyID:     cfg.ObjectStorage.AccessKeyID,
		SecretAccessKey: cfg.ObjectStorage.SecretAccessKey,
		Bucket:          cfg.ObjectStorage.Bucket,
		PublicURL:       cfg.ObjectStorage.PublicURL,
		UseSSL:          cfg.ObjectStorage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	userRepo := repository.NewUserRepository(store)
	albumRepo := repository.NewAlbumRepository(store)
	photoRepo := repository.NewPhotoRepository(store)
	commentRepo := repository.NewCommentRepository(store)
	tokenRepo := repository.NewRedisTokenRepo(redisClient)

	tokenService := tokensvc.NewTokenService(tokenRepo, cfg.AppSecret)
	sessionProvider := session.New(log, userRepo)
	userService := usersvc.NewUserService(log, userRepo, tokenService, sessionProvider)
	albumService := albumsvc.NewAlbumService(log, albumRepo, photoRepo, fileStorage)
	photoService := photosvc.NewPhotoService(log, photoRepo, albumRepo, userRepo, fileStorage)
	commentService := commentsvc.NewCommentService(log, commentRepo, userRepo)

	routers := httprouters.NewRouter(log, userService, tokenService, albumService, photoService, commentService)

	server := httpapp.New(log, cfg.AppSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		Session:    sessionProvider,
		store:      store,
		redis:      redisClient,
	}, nil
}

func (a *App) Stop() error {
	const op = "app.Stop"

	a.Session.Stop()

	if err := a.HTTPServer.Stop(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.redis.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.store.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
