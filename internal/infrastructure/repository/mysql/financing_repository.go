package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/infrastructure/persistence"
	redisrepository "github.com/lostiburones/cobranza-service/internal/infrastructure/repository/redis"
)

type GORMFinancingRepository struct {
	db        *gorm.DB
	redisRepo *redisrepository.RedisFinancingRepository
	logger    *zap.Logger
}

func NewFinancingRepository(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GORMFinancingRepository {
	return &GORMFinancingRepository{
		db:        db,
		redisRepo: redisrepository.NewRedisFinancingRepository(redisClient, 5*time.Minute),
		logger:    logger,
	}
}

func (r *GORMFinancingRepository) Create(ctx context.Context, f *domain.Financing) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}

	model := persistence.FinancingModelFromDomain(f)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create financing", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	r.logger.Debug("financing created",
		zap.String("financing_id", f.ID),
		zap.String("control_number", f.ControlNumber),
	)

	return nil
}

func (r *GORMFinancingRepository) FindByID(ctx context.Context, id string) (*domain.Financing, error) {
	cached, err := r.redisRepo.FindByID(ctx, id)
	if err == nil {
		r.logger.Debug("financing cache hit", zap.String("financing_id", id))
		return cached, nil
	}

	var model persistence.FinancingModel
	result := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFinancingNotFound
		}
		r.logger.Error("failed to query financing", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	f := model.ToDomain()

	// Update cache asynchronously
	go r.redisRepo.Save(context.Background(), f)

	return f, nil
}

func (r *GORMFinancingRepository) FindByStatuses(ctx context.Context, statuses []domain.FinancingStatus) ([]*domain.Financing, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	var models []persistence.FinancingModel
	result := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ?", raw).
		Order("start_date ASC").
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to query financings by status", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	financings := make([]*domain.Financing, len(models))
	for i, model := range models {
		financings[i] = model.ToDomain()
	}

	return financings, nil
}

func (r *GORMFinancingRepository) UpdateStatus(ctx context.Context, id string, status domain.FinancingStatus) error {
	// Invalidate cache before the write so concurrent readers fetch fresh
	// data from MySQL.
	if err := r.redisRepo.Delete(ctx, id); err != nil {
		r.logger.Warn("failed to invalidate cache before status update",
			zap.Error(err),
			zap.String("financing_id", id))
	}

	result := r.db.WithContext(ctx).
		Model(&persistence.FinancingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to update financing status", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrFinancingNotFound
	}

	r.logger.Debug("financing status updated",
		zap.String("financing_id", id),
		zap.String("status", string(status)),
	)

	return nil
}
