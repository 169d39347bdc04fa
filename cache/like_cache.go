package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultLikeTTL 点赞快照默认保留时间
const DefaultLikeTTL = 30 * 24 * time.Hour

// GetLikesKey 根据用户ID生成点赞快照的Redis键
func GetLikesKey(userID int64) string {
	return fmt.Sprintf("likes:%d", userID)
}

// LikeCache keeps a snapshot of each user's liked track ids in a Redis list,
// most recently liked first. It is the persisted local tier of the like set.
type LikeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLikeCache creates a cache. A non-positive ttl uses DefaultLikeTTL.
func NewLikeCache(client *redis.Client, ttl time.Duration) *LikeCache {
	if ttl <= 0 {
		ttl = DefaultLikeTTL
	}
	return &LikeCache{client: client, ttl: ttl}
}

// Save replaces the user's snapshot.
func (c *LikeCache) Save(ctx context.Context, userID int64, ids []string) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	key := GetLikesKey(userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) == 0 {
			return nil
		}
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe.RPush(ctx, key, members...)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save likes snapshot: %w", err)
	}
	return nil
}

// Load returns the user's snapshot, or an empty slice when there is none.
func (c *LikeCache) Load(ctx context.Context, userID int64) ([]string, error) {
	if c.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}
	ids, err := c.client.LRange(ctx, GetLikesKey(userID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to load likes snapshot: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Clear removes the user's snapshot.
func (c *LikeCache) Clear(ctx context.Context, userID int64) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return c.client.Del(ctx, GetLikesKey(userID)).Err()
}

// ForUser binds the cache to one user, matching the like set's local store.
func (c *LikeCache) ForUser(userID int64) *UserLikeStore {
	return &UserLikeStore{cache: c, userID: userID}
}

// UserLikeStore is a LikeCache bound to one user.
type UserLikeStore struct {
	cache  *LikeCache
	userID int64
}

func (s *UserLikeStore) SaveLikes(ctx context.Context, ids []string) error {
	return s.cache.Save(ctx, s.userID, ids)
}

func (s *UserLikeStore) LoadLikes(ctx context.Context) ([]string, error) {
	return s.cache.Load(ctx, s.userID)
}
