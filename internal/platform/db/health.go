package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 5 * time.Second

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
		Healthy:         stat.TotalConns() > 0,
	}
}

// HealthHandler returns the health check endpoint handler. It pings the
// database and, when a probe is supplied, the upstream clinical provider,
// each bounded by a 5 second deadline.
func HealthHandler(pool *pgxpool.Pool, probe func(context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		body := map[string]interface{}{"status": "ok"}
		healthy := true

		if err := pool.Ping(ctx); err != nil {
			healthy = false
			body["database"] = map[string]interface{}{"status": "down", "error": err.Error()}
		} else {
			body["database"] = map[string]interface{}{"status": "ok", "pool": GetPoolStats(pool)}
		}

		if probe != nil {
			if err := probe(ctx); err != nil {
				healthy = false
				body["provider"] = map[string]interface{}{"status": "down", "error": err.Error()}
			} else {
				body["provider"] = map[string]interface{}{"status": "ok"}
			}
		}

		if !healthy {
			body["status"] = "degraded"
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		return c.JSON(http.StatusOK, body)
	}
}
