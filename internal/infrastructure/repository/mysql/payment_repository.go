package sqlrepository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/infrastructure/persistence"
	redisrepository "github.com/lostiburones/cobranza-service/internal/infrastructure/repository/redis"
)

type GORMPaymentRepository struct {
	db          *gorm.DB
	receiptRepo *redisrepository.RedisReceiptRepository
	logger      *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db:          db,
		receiptRepo: redisrepository.NewRedisReceiptRepository(redisClient),
		logger:      logger,
	}
}

// CreateBatch persists all payments in one transaction: either every row is
// created or none is, so a multi-installment payment can never half-apply.
func (r *GORMPaymentRepository) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	models := make([]*persistence.PaymentModel, len(payments))
	for i, p := range payments {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		models[i] = persistence.PaymentModelFromDomain(p)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(models).Error
	})
	if err != nil {
		// Creation failed as a unit; drop the assigned ids so the records
		// stay transient.
		for _, p := range payments {
			p.ID = ""
		}
		if isDuplicateError(err) {
			for _, p := range payments {
				if p.ReceiptRef != "" {
					return &domain.DuplicateReceiptError{ReceiptRef: p.ReceiptRef}
				}
			}
			return &domain.DuplicateReceiptError{}
		}
		r.logger.Error("failed to save payments", zap.Error(err), zap.Int("count", len(payments)))
		return fmt.Errorf("database error: %w", err)
	}

	// Mark receipts in the dedup index after the rows are durable.
	for _, p := range payments {
		if p.ReceiptRef != "" {
			if _, err := r.receiptRepo.Mark(ctx, p.ReceiptRef); err != nil {
				r.logger.Warn("failed to mark receipt in redis", zap.Error(err), zap.String("receipt_ref", p.ReceiptRef))
			}
		}
	}

	r.logger.Debug("payments saved",
		zap.Int("count", len(payments)),
		zap.String("financing_id", payments[0].FinancingID),
	)

	return nil
}

func (r *GORMPaymentRepository) FindByFinancingID(ctx context.Context, financingID string) ([]*domain.Payment, error) {
	var models []persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("financing_id = ?", financingID).
		Order("installment_number ASC, date ASC").
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to fetch payments by financing ID",
			zap.Error(result.Error),
			zap.String("financing_id", financingID),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	payments := make([]*domain.Payment, len(models))
	for i, model := range models {
		payments[i] = model.ToDomain()
	}

	return payments, nil
}

func (r *GORMPaymentRepository) FindByFinancingIDWithPagination(ctx context.Context, financingID string, limit, offset int) ([]*domain.Payment, error) {
	var models []persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("financing_id = ?", financingID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to fetch payments with pagination",
			zap.Error(result.Error),
			zap.String("financing_id", financingID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	payments := make([]*domain.Payment, len(models))
	for i, model := range models {
		payments[i] = model.ToDomain()
	}

	return payments, nil
}

func (r *GORMPaymentRepository) CountByFinancingID(ctx context.Context, financingID string) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Where("financing_id = ?", financingID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("failed to count payments",
			zap.Error(result.Error),
			zap.String("financing_id", financingID),
		)
		return 0, fmt.Errorf("database error: %w", result.Error)
	}

	return count, nil
}

// ExistsByReceiptRef checks receipt uniqueness system-wide: Redis first for
// the hot path, MySQL as the authority on a miss.
func (r *GORMPaymentRepository) ExistsByReceiptRef(ctx context.Context, receiptRef string) (bool, error) {
	exists, err := r.receiptRepo.Exists(ctx, receiptRef)
	if err != nil {
		r.logger.Warn("redis receipt check failed, falling back to MySQL", zap.Error(err))
	} else if exists {
		r.logger.Debug("receipt exists (Redis index)", zap.String("receipt_ref", receiptRef))
		return true, nil
	}

	var count int64
	result := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Where("receipt_ref = ?", receiptRef).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("failed to check receipt existence", zap.Error(result.Error))
		return false, fmt.Errorf("database error: %w", result.Error)
	}

	existsInDB := count > 0

	if existsInDB {
		// Backfill the index so the next check stays in Redis.
		if _, err := r.receiptRepo.Mark(ctx, receiptRef); err != nil {
			r.logger.Warn("failed to backfill receipt index", zap.Error(err))
		}
	}

	return existsInDB, nil
}
