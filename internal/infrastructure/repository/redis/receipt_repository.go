package redisrepository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisReceiptRepository keeps a fast dedup index of used receipt
// references. MySQL's unique index stays the authority; this layer exists so
// the common duplicate-voucher case is caught without a round trip to the
// database.
type RedisReceiptRepository struct {
	client *redis.Client
}

func NewRedisReceiptRepository(client *redis.Client) *RedisReceiptRepository {
	return &RedisReceiptRepository{client: client}
}

// Mark records the receipt reference. Returns false when it was already
// marked.
func (r *RedisReceiptRepository) Mark(ctx context.Context, receiptRef string) (bool, error) {
	wasSet, err := r.client.SetNX(ctx, r.receiptKey(receiptRef), 1, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark receipt: %w", err)
	}
	return wasSet, nil
}

func (r *RedisReceiptRepository) Exists(ctx context.Context, receiptRef string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.receiptKey(receiptRef)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check receipt existence: %w", err)
	}
	return exists > 0, nil
}

func (r *RedisReceiptRepository) receiptKey(receiptRef string) string {
	return fmt.Sprintf("receipt:%s", receiptRef)
}
