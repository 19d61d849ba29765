package financing

import (
	"time"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

// Arrears is the overdue position of one financing as of a point in time.
type Arrears struct {
	OverdueCount  int
	OverdueAmount int64
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ComputeArrears derives how many installments are overdue and their
// monetary value. An installment index in 1..elapsed counts as paid iff an
// installment-kind payment carries that number. Completed and cash
// financings are never in arrears.
func ComputeArrears(f *domain.Financing, payments []*domain.Payment, now time.Time, cfg Config) (Arrears, error) {
	if err := validateFinancing(f); err != nil {
		return Arrears{}, err
	}

	if f.SaleType == domain.SaleTypeCash || f.Status == domain.FinancingStatusCompleted {
		return Arrears{}, nil
	}

	elapsed := InstallmentsElapsed(f, now, cfg)
	if elapsed == 0 {
		return Arrears{}, nil
	}

	paid := make(map[int]bool, len(payments))
	for _, p := range payments {
		if p.Kind == domain.PaymentKindInstallment && p.InstallmentNumber > 0 {
			paid[p.InstallmentNumber] = true
		}
	}

	overdue := 0
	for i := 1; i <= elapsed; i++ {
		if !paid[i] {
			overdue++
		}
	}

	return Arrears{
		OverdueCount:  overdue,
		OverdueAmount: int64(overdue) * InstallmentValue(f.Total, f.Installments),
	}, nil
}

// ClassifySeverity buckets an overdue count for collection prioritization.
// Derived only, never persisted.
func ClassifySeverity(overdueCount int, t SeverityThresholds) Severity {
	switch {
	case overdueCount >= t.Critical:
		return SeverityCritical
	case overdueCount >= t.High:
		return SeverityHigh
	case overdueCount >= t.Medium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func validateFinancing(f *domain.Financing) error {
	if f == nil {
		return domain.NewValidationError("financing", "financing is required")
	}
	if f.Total < 0 {
		return domain.NewValidationError("total", "total cannot be negative")
	}
	if f.SaleType == domain.SaleTypeInstallments && f.Installments <= 0 {
		return domain.NewValidationError("installments", "installment count must be positive")
	}
	return nil
}
