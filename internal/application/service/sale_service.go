package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/financing"
)

// SaleService creates sales: it allocates the control number, decrements
// stock and writes the financing record. Payment state is never touched
// here; cash sales are born completed, installment sales born active.
type SaleService struct {
	financingRepo domain.FinancingRepository
	paymentRepo   domain.PaymentRepository
	clientRepo    domain.ClientRepository
	productRepo   domain.ProductRepository
	controlRepo   domain.ControlNumberRepository
	logger        *zap.Logger
}

func NewSaleService(
	financingRepo domain.FinancingRepository,
	paymentRepo domain.PaymentRepository,
	clientRepo domain.ClientRepository,
	productRepo domain.ProductRepository,
	controlRepo domain.ControlNumberRepository,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		financingRepo: financingRepo,
		paymentRepo:   paymentRepo,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		controlRepo:   controlRepo,
		logger:        logger,
	}
}

type SaleItemRequest struct {
	ProductID string
	Quantity  int
}

type CreateSaleRequest struct {
	ClientID     string
	SaleType     domain.SaleType
	Installments int
	Items        []SaleItemRequest
	StartDate    time.Time
	Description  string
	// DownPayment, when positive, is recorded as an initial-kind payment.
	DownPayment       int64
	DownPaymentMethod string
}

func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*domain.Financing, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		product, err := s.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
		}
		items = append(items, domain.LineItem{
			ProductID: product.ID,
			Quantity:  it.Quantity,
			UnitPrice: product.UnitPrice,
			Subtotal:  int64(it.Quantity) * product.UnitPrice,
		})
	}

	f, err := domain.NewFinancing(req.ClientID, items, req.SaleType, req.Installments, req.StartDate, req.Description)
	if err != nil {
		return nil, err
	}

	seq, err := s.controlRepo.Next(ctx, string(req.SaleType))
	if err != nil {
		return nil, &domain.IOError{Op: "allocate control number", Err: err}
	}
	f.ControlNumber = domain.FormatControlNumber(req.SaleType, seq)

	decremented := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		if err := s.productRepo.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.restock(ctx, decremented)
			return nil, fmt.Errorf("failed to decrement stock for %s: %w", it.ProductID, err)
		}
		decremented = append(decremented, it)
	}

	if err := s.financingRepo.Create(ctx, f); err != nil {
		s.restock(ctx, decremented)
		s.logger.Error("failed to create financing",
			zap.Error(err),
			zap.String("client_id", req.ClientID),
			zap.String("control_number", f.ControlNumber),
		)
		return nil, &domain.IOError{Op: "create financing", Err: err}
	}

	if req.DownPayment > 0 {
		down, err := domain.NewPayment(f.ID, req.DownPayment, f.StartDate, domain.PaymentKindInitial, 0, req.DownPaymentMethod, "", "", "down payment")
		if err != nil {
			return nil, err
		}
		if err := s.paymentRepo.CreateBatch(ctx, []*domain.Payment{down}); err != nil {
			return nil, &domain.PartialApplyError{FinancingID: f.ID, Err: fmt.Errorf("financing created but down payment failed: %w", err)}
		}

		// A down payment can settle the sale outright. Pending zero means
		// completed, and once pending is zero no later payment is accepted,
		// so the status has to land here.
		ledger, err := financing.BuildLedger(f, []*domain.Payment{down})
		if err != nil {
			return nil, &domain.PartialApplyError{FinancingID: f.ID, Created: []*domain.Payment{down}, Err: err}
		}
		if ledger.PendingAmount == 0 {
			if err := s.financingRepo.UpdateStatus(ctx, f.ID, domain.FinancingStatusCompleted); err != nil {
				return nil, &domain.PartialApplyError{FinancingID: f.ID, Created: []*domain.Payment{down}, Err: err}
			}
			f.Status = domain.FinancingStatusCompleted
		}
	}

	s.logger.Info("sale created",
		zap.String("financing_id", f.ID),
		zap.String("control_number", f.ControlNumber),
		zap.String("client_id", f.ClientID),
		zap.String("sale_type", string(f.SaleType)),
		zap.Int64("total", f.Total),
		zap.Int("installments", f.Installments),
	)

	return f, nil
}

// restock compensates earlier stock decrements when a later step of sale
// creation fails, so an aborted sale does not leak inventory.
func (s *SaleService) restock(ctx context.Context, items []domain.LineItem) {
	for _, it := range items {
		if err := s.productRepo.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.logger.Error("failed to restock after aborted sale",
				zap.Error(err),
				zap.String("product_id", it.ProductID),
				zap.Int("quantity", it.Quantity),
			)
		}
	}
}
