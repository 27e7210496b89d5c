package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var dbErrorBody = gin.H{"error": "Database error"}

func (h HandlerSet) Dashboard(c *gin.Context) {
	dash, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("analytics dashboard failed")
		h.renderError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.HTML(http.StatusOK, "analytics.html", gin.H{
		"Title":    "Analytics Dashboard",
		"Stats":    dash.Stats,
		"Timeline": dash.Timeline,
		"Authors":  dash.Authors,
		"Popular":  dash.Popular,
	})
}

func (h HandlerSet) RawCount(c *gin.Context) {
	counts, err := h.analytics.Count(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("analytics count failed")
		c.JSON(http.StatusInternalServerError, dbErrorBody)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h HandlerSet) RawTimeline(c *gin.Context) {
	timeline, err := h.analytics.Timeline(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("analytics timeline failed")
		c.JSON(http.StatusInternalServerError, dbErrorBody)
		return
	}
	c.JSON(http.StatusOK, timeline)
}

func (h HandlerSet) RawAuthors(c *gin.Context) {
	authors, err := h.analytics.TopAuthors(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("analytics authors failed")
		c.JSON(http.StatusInternalServerError, dbErrorBody)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (h HandlerSet) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Title":   "Error",
		"Message": message,
	})
}
