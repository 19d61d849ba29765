package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

// RegistryService covers the thin client-registry and catalog operations.
type RegistryService struct {
	clientRepo  domain.ClientRepository
	productRepo domain.ProductRepository
	logger      *zap.Logger
}

func NewRegistryService(clientRepo domain.ClientRepository, productRepo domain.ProductRepository, logger *zap.Logger) *RegistryService {
	return &RegistryService{
		clientRepo:  clientRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *RegistryService) RegisterClient(ctx context.Context, fullName, nationalID, phone, address, photoURL string) (*domain.Client, error) {
	client, err := domain.NewClient(fullName, nationalID, phone, address, photoURL)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		s.logger.Error("failed to create client",
			zap.Error(err),
			zap.String("national_id", nationalID),
		)
		return nil, &domain.IOError{Op: "create client", Err: err}
	}

	s.logger.Info("client registered",
		zap.String("client_id", client.ID),
		zap.String("full_name", client.FullName),
	)
	return client, nil
}

func (s *RegistryService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

func (s *RegistryService) ListClients(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx, limit, offset)
}

func (s *RegistryService) AddProduct(ctx context.Context, name, description string, unitPrice int64, stock, lowStockThreshold int, category string) (*domain.Product, error) {
	product, err := domain.NewProduct(name, description, unitPrice, stock, lowStockThreshold, category)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, &domain.IOError{Op: "create product", Err: err}
	}

	s.logger.Info("product added",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock),
	)
	return product, nil
}

func (s *RegistryService) ListProducts(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, limit, offset)
}

// AdjustStock applies a manual stock correction and returns the product as
// stored afterwards.
func (s *RegistryService) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, domain.NewValidationError("delta", "adjustment cannot be zero")
	}

	if err := s.productRepo.AdjustStock(ctx, productID, delta); err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	if product.LowStock() {
		s.logger.Warn("product at or below restock threshold",
			zap.String("product_id", product.ID),
			zap.String("name", product.Name),
			zap.Int("stock", product.Stock),
			zap.Int("threshold", product.LowStockThreshold),
		)
	}

	return product, nil
}
