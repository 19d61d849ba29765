package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/financing"
)

// PaymentService is the only writer of payment records and financing status.
// It owns validation, installment-number assignment and the lifecycle state
// machine.
type PaymentService struct {
	financingRepo  domain.FinancingRepository
	paymentRepo    domain.PaymentRepository
	eventPublisher domain.EventPublisher // Optional - can be nil
	cfg            financing.Config
	logger         *zap.Logger
	now            func() time.Time

	// Installment numbering reads the current payment set before writing,
	// so at most one ApplyPayment per financing may be in flight. The lock
	// table enforces that here instead of trusting every caller.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPaymentService(
	financingRepo domain.FinancingRepository,
	paymentRepo domain.PaymentRepository,
	eventPublisher domain.EventPublisher,
	cfg financing.Config,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		financingRepo:  financingRepo,
		paymentRepo:    paymentRepo,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
		locks:          make(map[string]*sync.Mutex),
	}
}

type ApplyPaymentRequest struct {
	FinancingID     string
	Amount          int64
	Date            time.Time
	Method          string
	ReceiptRef      string
	ReceiptImageURL string
	Note            string
}

type ApplyPaymentResponse struct {
	Payments []*domain.Payment
	Status   domain.FinancingStatus
	Ledger   financing.Ledger
	Arrears  financing.Arrears
	Severity financing.Severity
}

// ApplyPayment validates the request, splits the amount into whole
// installment payments, persists them atomically and transitions the
// financing's status.
func (s *PaymentService) ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*ApplyPaymentResponse, error) {
	lock := s.financingLock(req.FinancingID)
	lock.Lock()
	defer lock.Unlock()

	f, err := s.financingRepo.FindByID(ctx, req.FinancingID)
	if err != nil {
		s.logger.Error("failed to get financing",
			zap.Error(err),
			zap.String("financing_id", req.FinancingID),
		)
		return nil, fmt.Errorf("failed to get financing: %w", err)
	}

	if f.IsTerminal() {
		return nil, &domain.InvalidStateError{Op: "payment", Status: f.Status}
	}
	if f.SaleType == domain.SaleTypeCash {
		return nil, &domain.InvalidStateError{Op: "payment", Status: f.Status}
	}

	existing, err := s.paymentRepo.FindByFinancingID(ctx, req.FinancingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	currentLedger, err := financing.BuildLedger(f, existing)
	if err != nil {
		return nil, err
	}

	amounts, err := s.splitAmount(f, currentLedger, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.validateReceipt(ctx, req); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}

	next := maxInstallmentNumber(existing) + 1
	created := make([]*domain.Payment, 0, len(amounts))
	numbers := make([]int, 0, len(amounts))
	for i, amount := range amounts {
		receiptRef := ""
		receiptImage := ""
		note := req.Note
		if i == 0 {
			// The receipt belongs to the transaction, not to every row
			// it was split into; attaching it once keeps the global
			// uniqueness rule intact.
			receiptRef = req.ReceiptRef
			receiptImage = req.ReceiptImageURL
		}

		p, err := domain.NewPayment(f.ID, amount, date, domain.PaymentKindInstallment, next+i, req.Method, receiptRef, receiptImage, note)
		if err != nil {
			return nil, err
		}
		created = append(created, p)
		numbers = append(numbers, p.InstallmentNumber)
	}

	if err := s.paymentRepo.CreateBatch(ctx, created); err != nil {
		var dup *domain.DuplicateReceiptError
		if errors.As(err, &dup) {
			return nil, err
		}
		s.logger.Error("failed to save payments",
			zap.Error(err),
			zap.String("financing_id", f.ID),
			zap.Int("count", len(created)),
		)
		return nil, &domain.IOError{Op: "create payments", Err: err}
	}

	updated := append(existing, created...)

	ledger, err := financing.BuildLedger(f, updated)
	if err != nil {
		return nil, &domain.PartialApplyError{FinancingID: f.ID, Created: created, Err: err}
	}
	arrears, err := financing.ComputeArrears(f, updated, s.now(), s.cfg)
	if err != nil {
		return nil, &domain.PartialApplyError{FinancingID: f.ID, Created: created, Err: err}
	}
	status, err := financing.DeriveStatus(f, updated, s.now(), s.cfg)
	if err != nil {
		return nil, &domain.PartialApplyError{FinancingID: f.ID, Created: created, Err: err}
	}

	if status != f.Status {
		if err := s.financingRepo.UpdateStatus(ctx, f.ID, status); err != nil {
			s.logger.Error("failed to update financing status",
				zap.Error(err),
				zap.String("financing_id", f.ID),
				zap.String("status", string(status)),
			)
			return nil, &domain.PartialApplyError{FinancingID: f.ID, Created: created, Err: err}
		}
	}

	s.logger.Info("payment applied",
		zap.String("financing_id", f.ID),
		zap.String("control_number", f.ControlNumber),
		zap.Int64("amount", req.Amount),
		zap.Ints("installment_numbers", numbers),
		zap.Int64("pending", ledger.PendingAmount),
		zap.String("status", string(status)),
	)

	if s.eventPublisher != nil {
		go s.publishPaymentApplied(f, req, numbers, ledger, arrears, status)
	}

	return &ApplyPaymentResponse{
		Payments: created,
		Status:   status,
		Ledger:   ledger,
		Arrears:  arrears,
		Severity: financing.ClassifySeverity(arrears.OverdueCount, s.cfg.SeverityThresholds),
	}, nil
}

// splitAmount turns the requested amount into per-payment amounts. Partial
// installments are not modeled: the amount must be a whole multiple of the
// installment value and the whole request is rejected otherwise. The one
// exception is an exact final settlement, where the outstanding balance
// itself is smaller than an installment because of rounding.
func (s *PaymentService) splitAmount(f *domain.Financing, ledger financing.Ledger, amount int64) ([]int64, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "amount must be positive")
	}

	value := financing.InstallmentValue(f.Total, f.Installments)
	if value <= 0 {
		return nil, domain.NewValidationError("installments", "installment count must be positive")
	}

	if amount == ledger.PendingAmount && amount%value != 0 {
		return []int64{amount}, nil
	}

	if amount < value {
		return nil, domain.NewValidationError("amount",
			fmt.Sprintf("amount is below the minimum installment value of %d centavos", value))
	}
	if amount%value != 0 {
		return nil, domain.NewValidationError("amount",
			fmt.Sprintf("amount must be a whole multiple of the installment value of %d centavos, partial installments are not accepted", value))
	}

	n := amount / value
	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = value
	}
	return amounts, nil
}

func (s *PaymentService) validateReceipt(ctx context.Context, req ApplyPaymentRequest) error {
	if req.ReceiptRef == "" {
		if s.cfg.ReceiptRequired(req.Method) {
			return domain.NewValidationError("receipt_ref",
				fmt.Sprintf("payment method %q requires a receipt reference", req.Method))
		}
		return nil
	}

	exists, err := s.paymentRepo.ExistsByReceiptRef(ctx, req.ReceiptRef)
	if err != nil {
		s.logger.Error("failed to check receipt existence",
			zap.Error(err),
			zap.String("receipt_ref", req.ReceiptRef),
		)
		return fmt.Errorf("failed to check receipt existence: %w", err)
	}
	if exists {
		s.logger.Info("duplicate receipt detected",
			zap.String("financing_id", req.FinancingID),
			zap.String("receipt_ref", req.ReceiptRef),
		)
		return &domain.DuplicateReceiptError{ReceiptRef: req.ReceiptRef}
	}
	return nil
}

// GetStatement returns the financing together with its recomputed ledger and
// arrears position.
type Statement struct {
	Financing *domain.Financing
	Payments  []*domain.Payment
	Ledger    financing.Ledger
	Arrears   financing.Arrears
	Severity  financing.Severity
}

func (s *PaymentService) GetStatement(ctx context.Context, financingID string) (*Statement, error) {
	f, err := s.financingRepo.FindByID(ctx, financingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get financing: %w", err)
	}

	payments, err := s.paymentRepo.FindByFinancingID(ctx, financingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	ledger, err := financing.BuildLedger(f, payments)
	if err != nil {
		return nil, err
	}
	arrears, err := financing.ComputeArrears(f, payments, s.now(), s.cfg)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Financing: f,
		Payments:  payments,
		Ledger:    ledger,
		Arrears:   arrears,
		Severity:  financing.ClassifySeverity(arrears.OverdueCount, s.cfg.SeverityThresholds),
	}, nil
}

type PaginationParams struct {
	Page     int
	PageSize int
}

type PaginatedPayments struct {
	Payments   []*domain.Payment
	Page       int
	PageSize   int
	TotalCount int64
	TotalPages int
}

func (s *PaymentService) GetFinancingPayments(ctx context.Context, financingID string) ([]*domain.Payment, error) {
	if _, err := s.financingRepo.FindByID(ctx, financingID); err != nil {
		s.logger.Error("failed to get financing",
			zap.Error(err),
			zap.String("financing_id", financingID),
		)
		return nil, fmt.Errorf("failed to get financing: %w", err)
	}

	payments, err := s.paymentRepo.FindByFinancingID(ctx, financingID)
	if err != nil {
		s.logger.Error("failed to get financing payments",
			zap.Error(err),
			zap.String("financing_id", financingID),
		)
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return payments, nil
}

func (s *PaymentService) GetFinancingPaymentsPaginated(ctx context.Context, financingID string, params PaginationParams) (*PaginatedPayments, error) {
	if params.Page < 1 {
		return nil, domain.NewValidationError("page", "page must be at least 1")
	}
	if params.PageSize < 1 {
		return nil, domain.NewValidationError("page_size", "page size must be at least 1")
	}

	if _, err := s.financingRepo.FindByID(ctx, financingID); err != nil {
		return nil, fmt.Errorf("failed to get financing: %w", err)
	}

	total, err := s.paymentRepo.CountByFinancingID(ctx, financingID)
	if err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	payments, err := s.paymentRepo.FindByFinancingIDWithPagination(ctx, financingID, params.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}

	return &PaginatedPayments{
		Payments:   payments,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func (s *PaymentService) publishPaymentApplied(f *domain.Financing, req ApplyPaymentRequest, numbers []int, ledger financing.Ledger, arrears financing.Arrears, status domain.FinancingStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewPaymentAppliedEvent(f.ID, domain.PaymentAppliedPayload{
		FinancingID:        f.ID,
		ControlNumber:      f.ControlNumber,
		ClientID:           f.ClientID,
		Amount:             req.Amount,
		InstallmentNumbers: numbers,
		TotalCollected:     ledger.TotalCollected,
		PendingAmount:      ledger.PendingAmount,
		OverdueCount:       arrears.OverdueCount,
		Status:             string(status),
		IsCompleted:        status == domain.FinancingStatusCompleted,
		AppliedAt:          time.Now(),
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish payment applied event",
			zap.Error(err),
			zap.String("financing_id", f.ID),
			zap.String("event_id", event.GetEventID()),
		)
	} else {
		s.logger.Debug("payment applied event published",
			zap.String("event_id", event.GetEventID()),
			zap.String("financing_id", f.ID),
		)
	}
}

func (s *PaymentService) financingLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func maxInstallmentNumber(payments []*domain.Payment) int {
	max := 0
	for _, p := range payments {
		if p.Kind == domain.PaymentKindInstallment && p.InstallmentNumber > max {
			max = p.InstallmentNumber
		}
	}
	return max
}
