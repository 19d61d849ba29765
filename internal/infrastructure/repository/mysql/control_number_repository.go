package sqlrepository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lostiburones/cobranza-service/internal/infrastructure/persistence"
)

// GORMControlNumberRepository allocates the sequential numbers behind the
// F-/C- control identifiers. Allocation takes a row lock so two concurrent
// sales can never share a number.
type GORMControlNumberRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewControlNumberRepository(db *gorm.DB, logger *zap.Logger) *GORMControlNumberRepository {
	return &GORMControlNumberRepository{db: db, logger: logger}
}

func (r *GORMControlNumberRepository) Next(ctx context.Context, sequence string) (int64, error) {
	var next int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter persistence.ControlNumberModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "sequence = ?", sequence).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = persistence.ControlNumberModel{Sequence: sequence, Value: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
			next = counter.Value
			return nil
		}
		if err != nil {
			return err
		}

		counter.Value++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}
		next = counter.Value
		return nil
	})

	if err != nil {
		r.logger.Error("failed to allocate control number",
			zap.Error(err),
			zap.String("sequence", sequence),
		)
		return 0, fmt.Errorf("database error: %w", err)
	}

	return next, nil
}
