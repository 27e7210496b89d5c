package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KirillGluhov/gallery-api/internal/service"
	"github.com/KirillGluhov/gallery-api/internal/storage"
)

func (h HandlerSet) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":   "PhotoGallery",
		"Version": Version,
	})
}

func (h HandlerSet) UploadPage(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.html", gin.H{"Title": "Upload Image"})
}

func (h HandlerSet) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.String(http.StatusBadRequest, "image required")
		return
	}
	defer file.Close()

	image, err := h.gallery.Upload(c.Request.Context(), service.UploadInput{
		Filename:    header.Filename,
		File:        file,
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Author:      c.PostForm("author"),
	})
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
		c.String(http.StatusInternalServerError, "Database error")
		return
	}

	c.String(http.StatusOK, image.Path)
}

func (h HandlerSet) ListImages(c *gin.Context) {
	images, err := h.gallery.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list images failed")
		c.JSON(http.StatusInternalServerError, dbErrorBody)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h HandlerSet) Gallery(c *gin.Context) {
	images, err := h.gallery.Recent(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("gallery listing failed")
		h.renderError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.HTML(http.StatusOK, "gallery.html", gin.H{
		"Title":  "Photo Gallery",
		"Images": images,
	})
}

func (h HandlerSet) ServeImage(c *gin.Context) {
	name := c.Param("name")
	rc, contentType, err := h.gallery.OpenFile(c.Request.Context(), name)
	if err != nil {
		if !errors.Is(err, storage.ErrFileNotFound) {
			h.log.Warn().Err(err).Str("name", name).Msg("open image failed")
		}
		c.String(http.StatusNotFound, "Image not found")
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn().Err(err).Str("name", name).Msg("stream image interrupted")
	}
}

func (h HandlerSet) DeleteImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	err := h.gallery.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		c.String(http.StatusOK, "Image deleted successfully")
	case errors.Is(err, service.ErrImageNotFound):
		c.String(http.StatusNotFound, "Image not found")
	case errors.Is(err, service.ErrDeleteFailed):
		h.log.Error().Int64("image_id", id).Msg("delete affected no rows")
		c.String(http.StatusInternalServerError, "Failed to delete image from database")
	default:
		h.log.Error().Err(err).Int64("image_id", id).Msg("delete image failed")
		c.String(http.StatusInternalServerError, "Database error")
	}
}

func (h HandlerSet) RecordView(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	err := h.gallery.RecordView(c.Request.Context(), id)
	switch {
	case err == nil:
		c.String(http.StatusOK, "View count updated")
	case errors.Is(err, service.ErrImageNotFound):
		c.String(http.StatusNotFound, "Image not found")
	default:
		h.log.Error().Err(err).Int64("image_id", id).Msg("update view count failed")
		c.String(http.StatusInternalServerError, "Database error")
	}
}

func imageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Invalid image id")
		return 0, false
	}
	return id, true
}
