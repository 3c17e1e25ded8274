package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
)

const keyPrefix = "task:list:"

// TaskCache caches owner-scoped task listings in Redis. Keys are per user and
// per filter, so invalidation on write only has to clear one user's keys.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// Key builds the cache key for one user's listing under filter f.
// Also used by the service as the singleflight key.
func Key(userID int64, f dom.TaskFilter) string {
	var sb strings.Builder
	sb.WriteString(keyPrefix)
	sb.WriteString(strconv.FormatInt(userID, 10))
	if q := strings.ToLower(strings.TrimSpace(f.Q)); q != "" {
		sb.WriteString(":q=")
		sb.WriteString(q)
	}
	if f.DateFrom != nil {
		sb.WriteString(":from=")
		sb.WriteString(f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		sb.WriteString(":to=")
		sb.WriteString(f.DateTo.Format("2006-01-02"))
	}
	return sb.String()
}

// Get returns the cached listing for key, or nil on a miss.
func (c *TaskCache) Get(ctx context.Context, key string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Set stores the listing under key.
func (c *TaskCache) Set(ctx context.Context, key string, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// InvalidateUser removes every cached listing for the user (cache
// invalidation on write).
func (c *TaskCache) InvalidateUser(ctx context.Context, userID int64) error {
	prefix := keyPrefix + strconv.FormatInt(userID, 10)
	if err := c.rdb.Del(ctx, prefix).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
