package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"photostream/internal/domain/models"
	"photostream/internal/lib/logger/sl"
	album "photostream/internal/services/album_service"
	comment "photostream/internal/services/comment_service"
	photo "photostream/internal/services/photo_service"
	user "photostream/internal/services/user_service"
	"photostream/internal/transport/http/dto"
	"photostream/internal/transport/http/dto/request"
	"photostream/internal/transport/http/dto/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	RegisterNewUser(ctx context.Context, input dto.UserRegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	Profile(ctx context.Context, userID string) (models.User, error)
}

type AuthService interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type AlbumService interface {
	CreateAlbum(ctx context.Context, input dto.CreateAlbumInput) (string, error)
	Album(ctx context.Context, albumID string) (models.Album, error)
	UserAlbums(ctx context.Context, userID string) ([]models.Album, error)
	DeleteAlbum(ctx context.Context, albumID string) error
}

type PhotoService interface {
	UploadPhoto(ctx context.Context, input dto.PhotoUploadInput) (models.Photo, error)
	Photo(ctx context.Context, photoID string) (models.Photo, error)
	AlbumPhotos(ctx context.Context, albumID string) ([]models.Photo, error)
	DeletePhoto(ctx context.Context, photoID, imageURL string) error
	ToggleLike(ctx context.Context, photoID, userID string) (bool, error)
	Feed(ctx context.Context, limit int) ([]models.FeedPhoto, error)
}

type CommentService interface {
	AddComment(ctx context.Context, photoID, userID, text string) (models.Comment, error)
	PhotoComments(ctx context.Context, photoID string) ([]models.CommentWithAuthor, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
}

type Routers struct {
	log            *slog.Logger
	UserService    UserService
	AuthService    AuthService
	AlbumService   AlbumService
	PhotoService   PhotoService
	CommentService CommentService
}

func NewRouter(log *slog.Logger, userService UserService, authService AuthService, albumService AlbumService, photoService PhotoService, commentService CommentService) *Routers {
	return &Routers{
		log:            log,
		UserService:    userService,
		AuthService:    authService,
		AlbumService:   albumService,
		PhotoService:   photoService,
		CommentService: commentService,
	}
}

// callerID extracts the authenticated user's id from the verified token the
// jwt middleware put on the context.
func callerID(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	uid, _ := claims["uid"].(string)
	return uid
}

func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(slog.String("op", op))

	var req dto.UserRegisterInput

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRegisterRequest)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_register_request", err.Error()))
	}

	userID, err := r.UserService.RegisterNewUser(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrUserExist) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("user registered successfully", slog.String("user_id", userID))

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{
		"user_id": userID,
	}))
}

func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	pair, err := r.UserService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("authentication failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(slog.String("op", op))

	var req request.RefreshRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.AuthService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Warn("failed to refresh tokens", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(slog.String("op", op))

	var req request.LogoutRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.UserService.Logout(c.Request().Context(), callerID(c), req.RefreshToken); err != nil {
		log.Error("logout failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "logged out"})
}

func (r *Routers) CreateAlbum(c echo.Context) error {
	const op = "http.routers.CreateAlbum"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateAlbumInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	req.UserID = callerID(c)

	albumID, err := r.AlbumService.CreateAlbum(c.Request().Context(), req)
	if err != nil {
		log.Error("failed to create album", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{
		"album_id": albumID,
	}))
}

func (r *Routers) GetAlbum(c echo.Context) error {
	const op = "http.routers.GetAlbum"

	log := r.log.With(slog.String("op", op))

	albumID := c.Param("album_id")

	result, err := r.AlbumService.Album(c.Request().Context(), albumID)
	if err != nil {
		if errors.Is(err, album.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to get album", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

func (r *Routers) ListUserAlbums(c echo.Context) error {
	const op = "http.routers.ListUserAlbums"

	log := r.log.With(slog.String("op", op))

	albums, err := r.AlbumService.UserAlbums(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		log.Error("failed to list albums", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(albums))
}

func (r *Routers) DeleteAlbum(c echo.Context) error {
	const op = "http.routers.DeleteAlbum"

	log := r.log.With(slog.String("op", op))

	if err := r.AlbumService.DeleteAlbum(c.Request().Context(), c.Param("album_id")); err != nil {
		if errors.Is(err, album.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to delete album", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "album deleted"})
}

func (r *Routers) UploadPhoto(c echo.Context) error {
	const op = "http.routers.UploadPhoto"

	log := r.log.With(slog.String("op", op))

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "file is required"))
	}

	req := dto.PhotoUploadInput{
		AlbumID: c.FormValue("album_id"),
		File:    file,
		UserID:  callerID(c),
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	saved, err := r.PhotoService.UploadPhoto(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, photo.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to upload photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(saved))
}

func (r *Routers) GetPhoto(c echo.Context) error {
	const op = "http.routers.GetPhoto"

	log := r.log.With(slog.String("op", op))

	result, err := r.PhotoService.Photo(c.Request().Context(), c.Param("photo_id"))
	if err != nil {
		if errors.Is(err, photo.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to get photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

func (r *Routers) ListAlbumPhotos(c echo.Context) error {
	const op = "http.routers.ListAlbumPhotos"

	log := r.log.With(slog.String("op", op))

	photos, err := r.PhotoService.AlbumPhotos(c.Request().Context(), c.Param("album_id"))
	if err != nil {
		log.Error("failed to list album photos", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(photos))
}

func (r *Routers) DeletePhoto(c echo.Context) error {
	const op = "http.routers.DeletePhoto"

	log := r.log.With(slog.String("op", op))

	photoID := c.Param("photo_id")

	current, err := r.PhotoService.Photo(c.Request().Context(), photoID)
	if err != nil {
		if errors.Is(err, photo.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to get photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if err := r.PhotoService.DeletePhoto(c.Request().Context(), photoID, current.ImageURL); err != nil {
		if errors.Is(err, photo.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to delete photo", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "photo deleted"})
}

func (r *Routers) ToggleLike(c echo.Context) error {
	const op = "http.routers.ToggleLike"

	log := r.log.With(slog.String("op", op))

	photoID := c.Param("photo_id")

	liked, err := r.PhotoService.ToggleLike(c.Request().Context(), photoID, callerID(c))
	if err != nil {
		if errors.Is(err, photo.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to toggle like", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.ToggleLikeResponse{
		PhotoID: photoID,
		Liked:   liked,
	}))
}

func (r *Routers) AddComment(c echo.Context) error {
	const op = "http.routers.AddComment"

	log := r.log.With(slog.String("op", op))

	var req dto.AddCommentInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	saved, err := r.CommentService.AddComment(c.Request().Context(), c.Param("photo_id"), callerID(c), req.Text)
	if err != nil {
		if errors.Is(err, comment.ErrEmptyComment) || errors.Is(err, comment.ErrCommentTooLong) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
		}

		log.Error("failed to add comment", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(saved))
}

func (r *Routers) ListPhotoComments(c echo.Context) error {
	const op = "http.routers.ListPhotoComments"

	log := r.log.With(slog.String("op", op))

	comments, err := r.CommentService.PhotoComments(c.Request().Context(), c.Param("photo_id"))
	if err != nil {
		log.Error("failed to list comments", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(comments))
}

func (r *Routers) DeleteComment(c echo.Context) error {
	const op = "http.routers.DeleteComment"

	log := r.log.With(slog.String("op", op))

	err := r.CommentService.DeleteComment(c.Request().Context(), c.Param("comment_id"), callerID(c))
	if err != nil {
		if errors.Is(err, comment.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}
		if errors.Is(err, comment.ErrNotOwner) {
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		}

		log.Error("failed to delete comment", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "comment deleted"})
}

func (r *Routers) Feed(c echo.Context) error {
	const op = "http.routers.Feed"

	log := r.log.With(slog.String("op", op))

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	feed, err := r.PhotoService.Feed(c.Request().Context(), limit)
	if err != nil {
		log.Error("failed to assemble feed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(feed))
}

func (r *Routers) GetUserProfile(c echo.Context) error {
	const op = "http.routers.GetUserProfile"

	log := r.log.With(slog.String("op", op))

	profile, err := r.UserService.Profile(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		log.Error("failed to get profile", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewUserResponse(profile)))
}
