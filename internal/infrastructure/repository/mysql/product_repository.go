package sqlrepository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/infrastructure/persistence"
)

type GORMProductRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProductRepository(db *gorm.DB, logger *zap.Logger) *GORMProductRepository {
	return &GORMProductRepository{db: db, logger: logger}
}

func (r *GORMProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	model := persistence.ProductModelFromDomain(product)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create product", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model persistence.ProductModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	var models []persistence.ProductModel

	result := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to list products", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	products := make([]*domain.Product, len(models))
	for i, model := range models {
		products[i] = model.ToDomain()
	}

	return products, nil
}

// DecrementStock subtracts sold quantity guarded against overselling: the
// update only matches rows that still have enough stock.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&persistence.ProductModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		r.logger.Error("failed to decrement stock", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&persistence.ProductModel{}).
			Where("id = ?", id).
			Count(&count).Error; err == nil && count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}

func (r *GORMProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&persistence.ProductModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		r.logger.Error("failed to adjust stock", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&persistence.ProductModel{}).
			Where("id = ?", id).
			Count(&count).Error; err == nil && count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}
