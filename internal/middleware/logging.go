package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestID ensures every request carries an id, either the caller's
// X-Request-ID or a freshly generated one, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = newRequestID()
		}
		c.Request.Header.Set(constants.HeaderXRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}

func newRequestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}

// Logging emits one structured access log entry per request, severity keyed
// on the response status.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetHeader(constants.HeaderXRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("duration", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// Severity keyed to status: 5xx error, 404 info, other 4xx warn.
		log := logger.GetLogger()
		switch {
		case c.Writer.Status() >= 500:
			log.Error("HTTP request", fields...)
		case c.Writer.Status() == 404:
			log.Info("HTTP request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery converts panics into 500 responses and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.LogPanic(rec)
				c.AbortWithStatusJSON(500, constants.BuildErrorResponse(constants.MsgInternalError, ""))
			}
		}()
		c.Next()
	}
}
