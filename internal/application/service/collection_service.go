package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/financing"
)

// CollectionService builds the cobranza worklist: every active or overdue
// financing with its arrears position, worst first.
type CollectionService struct {
	financingRepo domain.FinancingRepository
	paymentRepo   domain.PaymentRepository
	clientRepo    domain.ClientRepository
	cfg           financing.Config
	logger        *zap.Logger
	now           func() time.Time
}

func NewCollectionService(
	financingRepo domain.FinancingRepository,
	paymentRepo domain.PaymentRepository,
	clientRepo domain.ClientRepository,
	cfg financing.Config,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		financingRepo: financingRepo,
		paymentRepo:   paymentRepo,
		clientRepo:    clientRepo,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

type OverdueEntry struct {
	Financing  *domain.Financing
	ClientName string
	Arrears    financing.Arrears
	Ledger     financing.Ledger
	Severity   financing.Severity
}

// OverdueReport recomputes arrears for every open financing and returns the
// ones with at least one overdue installment, sorted by overdue count
// descending.
func (s *CollectionService) OverdueReport(ctx context.Context) ([]OverdueEntry, error) {
	open, err := s.financingRepo.FindByStatuses(ctx, []domain.FinancingStatus{
		domain.FinancingStatusActive,
		domain.FinancingStatusOverdue,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list open financings: %w", err)
	}

	now := s.now()
	entries := make([]OverdueEntry, 0, len(open))
	for _, f := range open {
		payments, err := s.paymentRepo.FindByFinancingID(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get payments for %s: %w", f.ID, err)
		}

		arrears, err := financing.ComputeArrears(f, payments, now, s.cfg)
		if err != nil {
			return nil, err
		}
		if arrears.OverdueCount == 0 {
			continue
		}

		ledger, err := financing.BuildLedger(f, payments)
		if err != nil {
			return nil, err
		}

		clientName := ""
		if client, err := s.clientRepo.FindByID(ctx, f.ClientID); err == nil {
			clientName = client.FullName
		} else {
			s.logger.Warn("failed to resolve client name",
				zap.Error(err),
				zap.String("client_id", f.ClientID),
			)
		}

		entries = append(entries, OverdueEntry{
			Financing:  f,
			ClientName: clientName,
			Arrears:    arrears,
			Ledger:     ledger,
			Severity:   financing.ClassifySeverity(arrears.OverdueCount, s.cfg.SeverityThresholds),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Arrears.OverdueCount != entries[j].Arrears.OverdueCount {
			return entries[i].Arrears.OverdueCount > entries[j].Arrears.OverdueCount
		}
		return entries[i].Arrears.OverdueAmount > entries[j].Arrears.OverdueAmount
	})

	s.logger.Info("overdue report built",
		zap.Int("open_financings", len(open)),
		zap.Int("overdue", len(entries)),
	)

	return entries, nil
}
