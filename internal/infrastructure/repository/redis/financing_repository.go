package redisrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

var ErrFinancingNotCached = errors.New("financing not cached")

// RedisFinancingRepository is the cache-aside layer in front of the MySQL
// financing repository.
type RedisFinancingRepository struct {
	client   *redis.Client
	cacheTTL time.Duration
}

func NewRedisFinancingRepository(client *redis.Client, cacheTTL time.Duration) *RedisFinancingRepository {
	return &RedisFinancingRepository{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (r *RedisFinancingRepository) FindByID(ctx context.Context, id string) (*domain.Financing, error) {
	data, err := r.client.Get(ctx, r.financingKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrFinancingNotCached
		}
		return nil, fmt.Errorf("failed to get financing: %w", err)
	}

	var f domain.Financing
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal financing: %w", err)
	}

	return &f, nil
}

func (r *RedisFinancingRepository) Save(ctx context.Context, f *domain.Financing) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal financing: %w", err)
	}

	if err := r.client.Set(ctx, r.financingKey(f.ID), data, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to save financing: %w", err)
	}

	return nil
}

func (r *RedisFinancingRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.financingKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete financing: %w", err)
	}
	return nil
}

func (r *RedisFinancingRepository) financingKey(id string) string {
	return fmt.Sprintf("financing:%s", id)
}
