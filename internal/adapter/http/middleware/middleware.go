package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"gul-marketplace/pkg/apperror"
	"gul-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderAdminKey guards the administrative catalog mutations.
const HeaderAdminKey = "X-Admin-Key"

// AdminKey creates a middleware that gates a route group behind a shared
// admin key. An empty configured key disables the routes outright rather
// than leaving them open.
func AdminKey(configuredKey string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configuredKey == "" {
			response.Error(c, apperror.ErrNotFound("route"))
			c.Abort()
			return
		}
		presented := c.GetHeader(HeaderAdminKey)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(configuredKey)) != 1 {
			log.Warn().Str("client_ip", c.ClientIP()).Str("path", c.Request.URL.Path).Msg("admin key rejected")
			response.Error(c, apperror.ErrAdminKeyRequired())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
