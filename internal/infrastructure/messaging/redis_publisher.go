package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

type RedisEventPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisEventPublisher(client *redis.Client, logger *zap.Logger) *RedisEventPublisher {
	return &RedisEventPublisher{
		client: client,
		logger: logger,
	}
}

// Publish appends the event to its per-type stream. Streams are trimmed to
// streamMaxLen so an idle worker cannot make Redis grow without bound.
func (p *RedisEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	streamKey := eventStream(event.GetEventType())

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"event_id":     event.GetEventID(),
			"event_type":   event.GetEventType(),
			"aggregate_id": event.GetAggregateID(),
			"occurred_at":  event.GetOccurredAt().Unix(),
			"data":         string(eventData),
		},
	}

	_, err = p.client.XAdd(ctx, args).Result()
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("event_type", event.GetEventType()),
			zap.String("event_id", event.GetEventID()),
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("event_type", event.GetEventType()),
		zap.String("event_id", event.GetEventID()),
		zap.String("stream", streamKey),
	)

	return nil
}
