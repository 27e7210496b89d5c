package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/KirillGluhov/gallery-api/internal/service"
)

const Version = "0.1.0"

// Pinger is satisfied by *pgxpool.Pool and by a wrapped *redis.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Environment string
	MaxUploadMB int64
	Analytics   *service.AnalyticsService
	Gallery     *service.GalleryService
	Database    Pinger
	Cache       Pinger
}

type HandlerSet struct {
	log         zerolog.Logger
	environment string
	maxUpload   int64
	analytics   *service.AnalyticsService
	gallery     *service.GalleryService
	db          Pinger
	cache       Pinger
}

func NewHandlerSet(log zerolog.Logger, deps Deps) HandlerSet {
	maxUpload := deps.MaxUploadMB << 20
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return HandlerSet{
		log:         log,
		environment: deps.Environment,
		maxUpload:   maxUpload,
		analytics:   deps.Analytics,
		gallery:     deps.Gallery,
		db:          deps.Database,
		cache:       deps.Cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", h.Index)
	router.GET("/upload", h.UploadPage)
	router.POST("/new", h.Upload)
	router.GET("/all", h.ListImages)
	router.GET("/gallery", h.Gallery)
	router.GET("/images/:name", h.ServeImage)
	router.DELETE("/image/:id", h.DeleteImage)
	router.POST("/image/:id/view", h.RecordView)

	analytics := router.Group("/analytics")
	analytics.GET("", h.Dashboard)
	raw := analytics.Group("/raw")
	raw.GET("/count", h.RawCount)
	raw.GET("/timeline", h.RawTimeline)
	raw.GET("/authors", h.RawAuthors)
}
