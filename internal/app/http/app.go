package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmw "photostream/internal/middleware"
	httprouters "photostream/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
	secret  string
}

func New(log *slog.Logger, secret string, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
		secret:  secret,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// BuildRouters registers the public auth routes and the jwt-guarded
// authenticated surface (albums, photos, comments, feed, profiles).
func (s *Server) BuildRouters() {
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	api := s.e.Group("/api/v1")
	{
		api.POST("/register", s.routers.Register)
		api.POST("/login", s.routers.Login)
		api.POST("/refresh", s.routers.Refresh)

		authed := api.Group("")
		authed.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.secret),
		}))
		{
			authed.POST("/logout", s.routers.Logout)

			authed.POST("/albums", s.routers.CreateAlbum)
			authed.GET("/albums/:album_id", s.routers.GetAlbum)
			authed.DELETE("/albums/:album_id", s.routers.DeleteAlbum)
			authed.GET("/albums/:album_id/photos", s.routers.ListAlbumPhotos)

			authed.POST("/photos", s.routers.UploadPhoto)
			authed.GET("/photos/:photo_id", s.routers.GetPhoto)
			authed.DELETE("/photos/:photo_id", s.routers.DeletePhoto)
			authed.POST("/photos/:photo_id/like", s.routers.ToggleLike)
			authed.POST("/photos/:photo_id/comments", s.routers.AddComment)
			authed.GET("/photos/:photo_id/comments", s.routers.ListPhotoComments)

			authed.DELETE("/comments/:comment_id", s.routers.DeleteComment)

			authed.GET("/feed", s.routers.Feed)

			authed.GET("/users/:user_id", s.routers.GetUserProfile)
			authed.GET("/users/:user_id/albums", s.routers.ListUserAlbums)
		}
	}
}
