package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photostream/internal/domain/models"
	album "photostream/internal/services/album_service"
	comment "photostream/internal/services/comment_service"
	user "photostream/internal/services/user_service"
	httpapp "photostream/internal/transport/http"
	"photostream/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterNewUser(ctx context.Context, input dto.UserRegisterInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, userID, refreshToken string) error {
	args := m.Called(ctx, userID, refreshToken)
	return args.Error(0)
}

func (m *MockUserService) Profile(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

type MockAlbumService struct {
	mock.Mock
}

func (m *MockAlbumService) CreateAlbum(ctx context.Context, input dto.CreateAlbumInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockAlbumService) Album(ctx context.Context, albumID string) (models.Album, error) {
	args := m.Called(ctx, albumID)
	return args.Get(0).(models.Album), args.Error(1)
}

func (m *MockAlbumService) UserAlbums(ctx context.Context, userID string) ([]models.Album, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Album), args.Error(1)
}

func (m *MockAlbumService) DeleteAlbum(ctx context.Context, albumID string) error {
	args := m.Called(ctx, albumID)
	return args.Error(0)
}

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) UploadPhoto(ctx context.Context, input dto.PhotoUploadInput) (models.Photo, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Photo), args.Error(1)
}

func (m *MockPhotoService) Photo(ctx context.Context, photoID string) (models.Photo, error) {
	args := m.Called(ctx, photoID)
	return args.Get(0).(models.Photo), args.Error(1)
}

func (m *MockPhotoService) AlbumPhotos(ctx context.Context, albumID string) ([]models.Photo, error) {
	args := m.Called(ctx, albumID)
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoService) DeletePhoto(ctx context.Context, photoID, imageURL string) error {
	args := m.Called(ctx, photoID, imageURL)
	return args.Error(0)
}

func (m *MockPhotoService) ToggleLike(ctx context.Context, photoID, userID string) (bool, error) {
	args := m.Called(ctx, photoID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPhotoService) Feed(ctx context.Context, limit int) ([]models.FeedPhoto, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.FeedPhoto), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) AddComment(ctx context.Context, photoID, userID, text string) (models.Comment, error) {
	args := m.Called(ctx, photoID, userID, text)
	return args.Get(0).(models.Comment), args.Error(1)
}

func (m *MockCommentService) PhotoComments(ctx context.Context, photoID string) ([]models.CommentWithAuthor, error) {
	args := m.Called(ctx, photoID)
	return args.Get(0).([]models.CommentWithAuthor), args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, commentID, userID string) error {
	args := m.Called(ctx, commentID, userID)
	return args.Error(0)
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type routerFixture struct {
	echo     *echo.Echo
	routers  *httpapp.Routers
	users    *MockUserService
	auth     *MockAuthService
	albums   *MockAlbumService
	photos   *MockPhotoService
	comments *MockCommentService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	f := &routerFixture{
		echo:     e,
		users:    new(MockUserService),
		auth:     new(MockAuthService),
		albums:   new(MockAlbumService),
		photos:   new(MockPhotoService),
		comments: new(MockCommentService),
	}
	f.routers = httpapp.NewRouter(slog.Default(), f.users, f.auth, f.albums, f.photos, f.comments)

	return f
}

// newContext builds an echo context carrying the verified token the jwt
// middleware would have set.
func (f *routerFixture) newContext(method, target, body, callerID string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)

	if callerID != "" {
		c.Set("user", &jwt.Token{Claims: jwt.MapClaims{"uid": callerID}})
	}

	return c, rec
}

func TestRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newRouterFixture(t)
		c, rec := f.newContext(http.MethodPost, "/api/v1/register",
			`{"email":"alice@example.com","password":"password123","username":"alice"}`, "")

		f.users.On("RegisterNewUser", mock.Anything, mock.MatchedBy(func(in dto.UserRegisterInput) bool {
			return in.Email == "alice@example.com" && in.Username == "alice"
		})).Return("user-1", nil)

		require.NoError(t, f.routers.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "user-1")
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newRouterFixture(t)
		c, rec := f.newContext(http.MethodPost, "/api/v1/register",
			`{"email":"alice@example.com","password":"password123","username":"alice"}`, "")

		f.users.On("RegisterNewUser", mock.Anything, mock.Anything).Return("", user.ErrUserExist)

		require.NoError(t, f.routers.Register(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password rejected before the service", func(t *testing.T) {
		f := newRouterFixture(t)
		c, rec := f.newContext(http.MethodPost, "/api/v1/register",
			`{"email":"alice@example.com","password":"short","username":"alice"}`, "")

		require.NoError(t, f.routers.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.users.AssertNotCalled(t, "RegisterNewUser", mock.Anything, mock.Anything)
	})
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodPost, "/api/v1/login",
		`{"email":"alice@example.com","password":"wrongpassword"}`, "")

	f.users.On("Login", mock.Anything, "alice@example.com", "wrongpassword").
		Return(nil, user.ErrInvalidCredentials)

	require.NoError(t, f.routers.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAlbum_CallerBecomesOwner(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodPost, "/api/v1/albums",
		`{"title":"Trip","description":"coast"}`, "user-1")

	f.albums.On("CreateAlbum", mock.Anything, mock.MatchedBy(func(in dto.CreateAlbumInput) bool {
		return in.Title == "Trip" && in.UserID == "user-1"
	})).Return("album-1", nil)

	require.NoError(t, f.routers.CreateAlbum(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	f.albums.AssertExpectations(t)
}

func TestGetAlbum_NotFound(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodGet, "/api/v1/albums/missing", "", "user-1")
	c.SetParamNames("album_id")
	c.SetParamValues("missing")

	f.albums.On("Album", mock.Anything, "missing").Return(models.Album{}, album.ErrAlbumNotFound)

	require.NoError(t, f.routers.GetAlbum(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleLike(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodPost, "/api/v1/photos/photo-1/like", "", "user-1")
	c.SetParamNames("photo_id")
	c.SetParamValues("photo-1")

	f.photos.On("ToggleLike", mock.Anything, "photo-1", "user-1").Return(true, nil)

	require.NoError(t, f.routers.ToggleLike(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.ToggleLikeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Liked)
	assert.Equal(t, "photo-1", body.Data.PhotoID)
}

func TestDeletePhoto_ResolvesImageURL(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodDelete, "/api/v1/photos/photo-1", "", "user-1")
	c.SetParamNames("photo_id")
	c.SetParamValues("photo-1")

	f.photos.On("Photo", mock.Anything, "photo-1").
		Return(models.Photo{ID: "photo-1", ImageURL: "http://cdn/photos/a.jpg"}, nil)
	f.photos.On("DeletePhoto", mock.Anything, "photo-1", "http://cdn/photos/a.jpg").Return(nil)

	require.NoError(t, f.routers.DeletePhoto(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	f.photos.AssertExpectations(t)
}

func TestDeleteComment(t *testing.T) {
	t.Run("not the author", func(t *testing.T) {
		f := newRouterFixture(t)
		c, rec := f.newContext(http.MethodDelete, "/api/v1/comments/comment-1", "", "user-2")
		c.SetParamNames("comment_id")
		c.SetParamValues("comment-1")

		f.comments.On("DeleteComment", mock.Anything, "comment-1", "user-2").Return(comment.ErrNotOwner)

		require.NoError(t, f.routers.DeleteComment(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing comment", func(t *testing.T) {
		f := newRouterFixture(t)
		c, rec := f.newContext(http.MethodDelete, "/api/v1/comments/missing", "", "user-1")
		c.SetParamNames("comment_id")
		c.SetParamValues("missing")

		f.comments.On("DeleteComment", mock.Anything, "missing", "user-1").Return(comment.ErrCommentNotFound)

		require.NoError(t, f.routers.DeleteComment(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFeed_LimitFromQuery(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodGet, "/api/v1/feed?limit=25", "", "user-1")

	f.photos.On("Feed", mock.Anything, 25).Return([]models.FeedPhoto{}, nil)

	require.NoError(t, f.routers.Feed(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	f.photos.AssertExpectations(t)
}

func TestGetUserProfile(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodGet, "/api/v1/users/user-1", "", "user-1")
	c.SetParamNames("user_id")
	c.SetParamValues("user-1")

	f.users.On("Profile", mock.Anything, "user-1").Return(models.User{
		ID:          "user-1",
		Username:    "alice",
		DisplayName: "Alice",
		Email:       "alice@example.com",
		PassHash:    []byte("secret"),
	}, nil)

	require.NoError(t, f.routers.GetUserProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
	// the password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestRefresh_InvalidToken(t *testing.T) {
	f := newRouterFixture(t)
	c, rec := f.newContext(http.MethodPost, "/api/v1/refresh",
		`{"refresh_token":"stale"}`, "")

	f.auth.On("RefreshTokens", mock.Anything, "stale").Return(nil, assert.AnError)

	require.NoError(t, f.routers.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
