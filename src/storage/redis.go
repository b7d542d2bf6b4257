package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
)

const (
	snapshotKey       = "dashboard:snapshot"
	redisDialTimeout  = 5 * time.Second
	redisReadTimeout  = 3 * time.Second
	redisWriteTimeout = 3 * time.Second
)

// -----------------------------------------------------------------------------
// RedisSnapshotCache keeps the latest merged snapshot in Redis so a restart
// can paint the dashboard before the stream delivers fresh initial_data.
// -----------------------------------------------------------------------------

type RedisSnapshotCache struct {
	Config *models.MConfig
	Logger *logger.Logger
	client *redis.Client
	ttl    time.Duration
}

// -----------------------------------------------------------------------------

func NewRedisSnapshotCache(cfg *models.MConfig, log *logger.Logger) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Cache.RedisAddr,
		Password:     cfg.Cache.RedisPassword,
		DB:           cfg.Cache.RedisDB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisReadTimeout,
		WriteTimeout: redisWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSnapshotCache{
		Config: cfg,
		Logger: log,
		client: client,
		ttl:    time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}, nil
}

// -----------------------------------------------------------------------------

func (r *RedisSnapshotCache) SaveSnapshot(ctx context.Context, snapshot models.MRealtimeSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return r.client.Set(ctx, snapshotKey, payload, r.ttl).Err()
}

// -----------------------------------------------------------------------------

// LoadSnapshot returns nil without error when nothing is cached or the TTL
// expired; cold starts are normal, not failures.
func (r *RedisSnapshotCache) LoadSnapshot(ctx context.Context) (*models.MRealtimeSnapshot, error) {
	payload, err := r.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot models.MRealtimeSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		// A corrupt entry is as good as a miss; drop it so the next save wins.
		r.Logger.Warning("Discarding corrupt cached snapshot: %v", err)
		r.client.Del(ctx, snapshotKey)
		return nil, nil
	}
	return &snapshot, nil
}

// -----------------------------------------------------------------------------

func (r *RedisSnapshotCache) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
