package handler

import (
	"context"
	"net/http"
	"time"

	"arqueogw/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health returns a JSON health check response.
// Checks Redis connectivity and the backend circuit breaker state.
func Health(rdb *redis.Client, cb *infra.Breaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		backendStatus := cb.State().String()

		status := http.StatusOK
		if redisStatus != "connected" || backendStatus == "open" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"redis":   redisStatus,
			"backend": backendStatus,
		})
	}
}
