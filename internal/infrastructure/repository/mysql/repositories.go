package sqlrepository

import (
	"errors"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

var (
	ErrFinancingNotFound = errors.New("financing not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repositories struct {
	Financing     domain.FinancingRepository
	Payment       domain.PaymentRepository
	Client        domain.ClientRepository
	Product       domain.ProductRepository
	ControlNumber domain.ControlNumberRepository
}

func NewRepositories(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	return &Repositories{
		Financing:     NewFinancingRepository(db, redisClient, logger),
		Payment:       NewPaymentRepository(db, redisClient, logger),
		Client:        NewClientRepository(db, logger),
		Product:       NewProductRepository(db, logger),
		ControlNumber: NewControlNumberRepository(db, logger),
	}
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
