package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health reports the liveness of the service and its backing stores. A
// failing database makes the whole check a 503; Redis is optional, so its
// state is reported but never fails the check.
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	} else {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		if err := sqlDB.PingContext(pingCtx); err != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}
		cancel()
	}

	redisStatus := "disabled"
	if h.redis != nil && h.redis.IsEnabled() {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		if err := h.redis.Ping(pingCtx); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "up"
		}
		cancel()
	}

	c.JSON(status, gin.H{
		"name":     constants.AppName,
		"version":  constants.AppVersion,
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
