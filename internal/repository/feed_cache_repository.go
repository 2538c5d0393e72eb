package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"mygallery-go/internal/model"
)

const (
	feedSnapshotKey = "feed:snapshot"
	feedSnapshotTTL = 7 * 24 * time.Hour
)

// FeedCacheRepository 缓存最近一次成功拉取的远端图片流快照。
// 进程重启后可以先用旧快照填充合并视图，再等首轮轮询落地。
type FeedCacheRepository interface {
	SaveSnapshot(ctx context.Context, items []model.MediaItem) error
	LoadSnapshot(ctx context.Context) ([]model.MediaItem, error)
}

type redisFeedCacheRepository struct {
	redisClient *redis.Client
}

// NewFeedCacheRepository 创建一个新的 FeedCacheRepository 实例。
// redisClient 为 nil 时所有操作都是空操作。
func NewFeedCacheRepository(redisClient *redis.Client) FeedCacheRepository {
	return &redisFeedCacheRepository{redisClient: redisClient}
}

// SaveSnapshot 把快照序列化后写入 Redis。
func (r *redisFeedCacheRepository) SaveSnapshot(ctx context.Context, items []model.MediaItem) error {
	if r.redisClient == nil {
		return nil
	}
	jsonData, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal feed snapshot: %w", err)
	}
	if err := r.redisClient.Set(ctx, feedSnapshotKey, jsonData, feedSnapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to set feed snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot 读取上一次成功的快照；无缓存时返回 nil。
func (r *redisFeedCacheRepository) LoadSnapshot(ctx context.Context) ([]model.MediaItem, error) {
	if r.redisClient == nil {
		return nil, nil
	}
	jsonData, err := r.redisClient.Get(ctx, feedSnapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed snapshot: %w", err)
	}
	var items []model.MediaItem
	if err := json.Unmarshal([]byte(jsonData), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed snapshot: %w", err)
	}
	return items, nil
}
