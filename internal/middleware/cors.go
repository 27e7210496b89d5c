package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, X-Request-Id"
	corsAllowMethods = "GET, POST, DELETE, OPTIONS"
	corsMaxAge       = "600"
)

// CORS echoes allowed origins back. An empty list or a "*" entry allows
// every origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}
	anyOrigin := len(allowed) == 0 || allowed["*"]

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			h.Add("Vary", "Origin")
			if anyOrigin || allowed[origin] {
				h.Set("Access-Control-Allow-Origin", origin)
			}
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Max-Age", corsMaxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}
