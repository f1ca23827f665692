package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/buildsight/backend/internal/metrics"
	"github.com/buildsight/backend/internal/storage/models"
	"github.com/buildsight/backend/pkg/logger"
	"github.com/buildsight/backend/pkg/utils"
)

type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func snapshotKey(projectID string) string {
	return fmt.Sprintf("analytics:%s", utils.CacheKey("snapshot", projectID))
}

func (c *Client) SetAnalytics(ctx context.Context, projectID string, snap *models.AnalyticsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = c.client.Set(ctx, snapshotKey(projectID), data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set snapshot cache: %w", err)
	}

	logger.Debug("Analytics snapshot cached", zap.String("project_id", projectID))
	return nil
}

func (c *Client) GetAnalytics(ctx context.Context, projectID string) (*models.AnalyticsSnapshot, bool, error) {
	data, err := c.client.Get(ctx, snapshotKey(projectID)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("analytics").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot cache: %w", err)
	}

	var snap models.AnalyticsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	metrics.CacheHits.WithLabelValues("analytics").Inc()
	logger.Debug("Analytics cache hit", zap.String("project_id", projectID))
	return &snap, true, nil
}

func (c *Client) InvalidateAnalytics(ctx context.Context, projectID string) error {
	return c.client.Del(ctx, snapshotKey(projectID)).Err()
}
