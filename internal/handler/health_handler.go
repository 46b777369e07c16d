package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const serviceName = "issue-workflow-api"

// RedisPinger is the part of the redis client the readiness probe uses
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthHandler serves the liveness and readiness probes.
// A nil redis means the service runs without the snapshot cache.
type HealthHandler struct {
	db    *gorm.DB
	redis RedisPinger
}

func NewHealthHandler(db *gorm.DB, rdb RedisPinger) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Health godoc
// @Summary      생존 확인
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
}

// Ready godoc
// @Summary      준비 상태 확인
// @Description  데이터베이스와 (설정된 경우) redis 연결을 확인합니다
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if reason := h.check(ctx); reason != "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": serviceName, "reason": reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName})
}

func (h *HealthHandler) check(ctx context.Context) string {
	if h.db == nil {
		return "database not connected"
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return "database not connected"
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "database ping failed"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			return "redis ping failed"
		}
	}
	return ""
}
