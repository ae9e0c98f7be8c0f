package handler

import (
	"context"
	"time"

	"matchpoint/internal/aggregate"
	"matchpoint/internal/pkg/response"
	"matchpoint/internal/storage"
	"matchpoint/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	started time.Time
	agg     *aggregate.Aggregator
	hub     *ws.Hub
	redis   *storage.Redis
}

func NewHealthHandler(agg *aggregate.Aggregator, hub *ws.Hub, redis *storage.Redis) *HealthHandler {
	return &HealthHandler{started: time.Now(), agg: agg, hub: hub, redis: redis}
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	storageState := "memory"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Context(), time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err == nil {
			storageState = "redis"
		} else {
			storageState = "memory (redis down)"
		}
	}
	return response.Success(c, fiber.StatusOK, "ok", fiber.Map{
		"uptime":        time.Since(h.started).Round(time.Second).String(),
		"cachedQueries": h.agg.CacheSize(),
		"wsClients":     h.hub.ClientCount(),
		"storage":       storageState,
	})
}
