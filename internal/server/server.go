package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/KirillGluhov/gallery-api/internal/config"
	"github.com/KirillGluhov/gallery-api/internal/handlers"
	"github.com/KirillGluhov/gallery-api/internal/middleware"
	"github.com/KirillGluhov/gallery-api/internal/web"
)

type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
}

func NewRouter(cfg *config.AppConfig, log zerolog.Logger, handlerSet handlers.HandlerSet) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true
	engine.RedirectFixedPath = true
	engine.SetHTMLTemplate(tmpl)

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(cfg.AllowCORSOrigins),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Title": "Not Found", "Message": "Not Found"})
	})

	handlerSet.Register(&engine.RouterGroup)
	return engine, nil
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, handlerSet handlers.HandlerSet) (*HTTPServer, error) {
	engine, err := NewRouter(cfg, log, handlerSet)
	if err != nil {
		return nil, err
	}

	return &HTTPServer{
		engine: engine,
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
			Handler:           engine,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
		log: log,
	}, nil
}

func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("listen %s: %w", s.server.Addr, err)
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server draining")
	return s.server.Shutdown(ctx)
}
