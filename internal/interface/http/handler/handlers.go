package handler

import (
	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/application/service"
	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/financing"
	sqlrepository "github.com/lostiburones/cobranza-service/internal/infrastructure/repository/mysql"
)

type Handlers struct {
	Payment    *PaymentHandler
	Sale       *SaleHandler
	Collection *CollectionHandler
	Registry   *RegistryHandler
}

func NewHandlers(repos *sqlrepository.Repositories, eventPublisher domain.EventPublisher, cfg financing.Config, logger *zap.Logger) *Handlers {
	paymentService := service.NewPaymentService(repos.Financing, repos.Payment, eventPublisher, cfg, logger)
	saleService := service.NewSaleService(repos.Financing, repos.Payment, repos.Client, repos.Product, repos.ControlNumber, logger)
	collectionService := service.NewCollectionService(repos.Financing, repos.Payment, repos.Client, cfg, logger)
	registryService := service.NewRegistryService(repos.Client, repos.Product, logger)

	return &Handlers{
		Payment:    NewPaymentHandler(paymentService, logger),
		Sale:       NewSaleHandler(saleService, logger),
		Collection: NewCollectionHandler(collectionService, logger),
		Registry:   NewRegistryHandler(registryService, logger),
	}
}
