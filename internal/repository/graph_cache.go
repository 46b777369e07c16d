package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"issue-workflow-api/internal/metrics"
	"issue-workflow-api/internal/workflow"
)

const (
	snapshotKeyPrefix = "workflow:snapshot:"
	versionKeyPrefix  = "workflow:snapshot-version:"
	// epochKey is bumped by InvalidateAll and covers every template
	epochKey = "workflow:snapshot-epoch"
)

var errStaleSnapshot = errors.New("snapshot changed while loading")

// GraphCache serves compiled template snapshots. Snapshots are kept in
// redis when a client is configured; concurrent loads of one template share
// a single database round trip either way. Every invalidation bumps a
// version in redis, and a load only writes its snapshot back when the
// version it saw before loading is still current.
type GraphCache struct {
	loader  SnapshotLoader
	redis   *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
	group   singleflight.Group
}

// NewGraphCache creates a GraphCache. rdb and m may be nil.
func NewGraphCache(loader SnapshotLoader, rdb *redis.Client, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *GraphCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphCache{loader: loader, redis: rdb, ttl: ttl, metrics: m, logger: logger}
}

func snapshotKey(templateID uuid.UUID) string {
	return snapshotKeyPrefix + templateID.String()
}

func versionKey(templateID uuid.UUID) string {
	return versionKeyPrefix + templateID.String()
}

// Model returns the compiled workflow model of a template
func (c *GraphCache) Model(ctx context.Context, templateID uuid.UUID) (*workflow.Model, error) {
	s, err := c.Snapshot(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return workflow.Compile(s)
}

// Snapshot returns the snapshot of a template from redis or the database
func (c *GraphCache) Snapshot(ctx context.Context, templateID uuid.UUID) (*workflow.Snapshot, error) {
	key := snapshotKey(templateID)

	if s, ok := c.fromRedis(ctx, key); ok {
		c.recordLookup(true)
		return s, nil
	}
	c.recordLookup(false)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		seen, versioned := c.version(ctx, templateID)
		s, err := c.loader.Load(ctx, templateID)
		if err != nil {
			return nil, err
		}
		if versioned {
			c.toRedis(ctx, templateID, seen, s)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*workflow.Snapshot), nil
}

// Invalidate drops the cached snapshot of a template. Call it after every
// change to its states, fields, list items, grants or responsible groups.
func (c *GraphCache) Invalidate(ctx context.Context, templateID uuid.UUID) error {
	key := snapshotKey(templateID)
	c.group.Forget(key)
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Incr(ctx, versionKey(templateID)).Err(); err != nil {
		return fmt.Errorf("failed to bump snapshot version %s: %w", templateID, err)
	}
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot %s: %w", templateID, err)
	}
	return nil
}

// InvalidateAll drops every cached snapshot. Group changes reach templates
// through grants and responsible groups, so they clear everything.
func (c *GraphCache) InvalidateAll(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Incr(ctx, epochKey).Err(); err != nil {
		return fmt.Errorf("failed to bump snapshot epoch: %w", err)
	}
	iter := c.redis.Scan(ctx, 0, snapshotKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan snapshots: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshots: %w", err)
	}
	c.logger.Debug("Invalidated cached snapshots", zap.Int("count", len(keys)))
	return nil
}

func (c *GraphCache) fromRedis(ctx context.Context, key string) (*workflow.Snapshot, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Snapshot cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var s workflow.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		c.logger.Warn("Dropping undecodable snapshot", zap.String("key", key), zap.Error(err))
		c.redis.Del(ctx, key)
		return nil, false
	}
	return &s, true
}

// version reads the epoch and template version a load starts from. The
// second result is false when redis is absent or unreadable; such loads are
// not written back.
func (c *GraphCache) version(ctx context.Context, templateID uuid.UUID) (string, bool) {
	if c.redis == nil {
		return "", false
	}
	vals, err := c.redis.MGet(ctx, epochKey, versionKey(templateID)).Result()
	if err != nil {
		c.logger.Warn("Snapshot version read failed", zap.String("template_id", templateID.String()), zap.Error(err))
		return "", false
	}
	return versionToken(vals), true
}

func versionToken(vals []interface{}) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			parts[i] = s
		}
	}
	return fmt.Sprintf("%s/%s", parts[0], parts[1])
}

// toRedis stores s unless the template was invalidated since seen was read
func (c *GraphCache) toRedis(ctx context.Context, templateID uuid.UUID, seen string, s *workflow.Snapshot) {
	key := snapshotKey(templateID)
	data, err := json.Marshal(s)
	if err != nil {
		c.logger.Warn("Failed to encode snapshot", zap.String("key", key), zap.Error(err))
		return
	}

	vkey := versionKey(templateID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.MGet(ctx, epochKey, vkey).Result()
		if err != nil {
			return err
		}
		if versionToken(vals) != seen {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, epochKey, vkey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Skipped caching stale snapshot", zap.String("key", key))
	default:
		c.logger.Warn("Snapshot cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *GraphCache) recordLookup(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(hit)
	}
}
