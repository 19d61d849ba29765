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

type GORMClientRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewClientRepository(db *gorm.DB, logger *zap.Logger) *GORMClientRepository {
	return &GORMClientRepository{db: db, logger: logger}
}

func (r *GORMClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	model := persistence.ClientModelFromDomain(client)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return domain.NewValidationError("national_id",
				fmt.Sprintf("a client with national id %q already exists", client.NationalID))
		}
		r.logger.Error("failed to create client", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var model persistence.ClientModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	var models []persistence.ClientModel

	result := r.db.WithContext(ctx).
		Order("full_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to list clients", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	clients := make([]*domain.Client, len(models))
	for i, model := range models {
		clients[i] = model.ToDomain()
	}

	return clients, nil
}
