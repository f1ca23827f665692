package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/buildsight/backend/internal/analytics"
	"github.com/buildsight/backend/internal/cache/redis"
	"github.com/buildsight/backend/internal/storage/sqlite"
	"github.com/buildsight/backend/pkg/logger"
)

type AnalyticsHandler struct {
	engine         *analytics.Engine
	db             *sqlite.Client
	cache          *redis.Client
	computeTimeout time.Duration
}

func NewAnalyticsHandler(engine *analytics.Engine, db *sqlite.Client, cache *redis.Client, computeTimeout time.Duration) *AnalyticsHandler {
	return &AnalyticsHandler{
		engine:         engine,
		db:             db,
		cache:          cache,
		computeTimeout: computeTimeout,
	}
}

// HandleCompute triggers one computation cycle and returns the full snapshot.
func (h *AnalyticsHandler) HandleCompute(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Project id is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.computeTimeout)
	defer cancel()

	snapshot, err := h.engine.ComputeAnalytics(ctx, projectID)
	if err != nil {
		if errors.Is(err, sqlite.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Project not found",
			})
		}
		logger.Error("Failed to compute analytics",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute analytics",
		})
	}

	return c.JSON(snapshot)
}

// HandleGet returns the last persisted snapshot, cache first.
func (h *AnalyticsHandler) HandleGet(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Project id is required",
		})
	}

	if h.cache != nil {
		snapshot, found, err := h.cache.GetAnalytics(c.Context(), projectID)
		if err != nil {
			logger.Warn("Analytics cache lookup failed",
				zap.String("project_id", projectID),
				zap.Error(err),
			)
		} else if found {
			return c.JSON(snapshot)
		}
	}

	snapshot, err := h.db.GetAnalyticsSnapshot(c.Context(), projectID)
	if err != nil {
		if errors.Is(err, sqlite.ErrAnalyticsNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No analytics computed for project",
			})
		}
		logger.Error("Failed to load analytics snapshot",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analytics",
		})
	}

	return c.JSON(snapshot)
}
