package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hugofmello/startup-pitch/config"
	"github.com/hugofmello/startup-pitch/model"
)

const resultKeyPrefix = "result:"

// RedisResultStore caches finalized extraction payloads. SET NX makes the
// write atomic and once-only even when two pollers see COMPLETED at the same
// time. Entries never expire: a result is read for the lifetime of its task.
type RedisResultStore struct {
	rdb *redis.Client
}

func NewRedisResultStore(ctx context.Context, cfg *config.RedisConfig) (*RedisResultStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisResultStore{rdb: rdb}, nil
}

// PutIfAbsent stores the result unless one already exists for the task.
// Returns true when this call created the entry.
func (s *RedisResultStore) PutIfAbsent(ctx context.Context, result model.Result) (bool, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal result: %w", err)
	}

	created, err := s.rdb.SetNX(ctx, resultKeyPrefix+result.TaskID, data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store result: %w", err)
	}
	return created, nil
}

// Get returns the cached result for taskID, or nil when absent.
func (s *RedisResultStore) Get(ctx context.Context, taskID string) (*model.Result, error) {
	data, err := s.rdb.Get(ctx, resultKeyPrefix+taskID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}
