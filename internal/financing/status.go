package financing

import (
	"time"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

// DeriveStatus recomputes the lifecycle status from the current payment
// snapshot: completed when the pending amount reaches zero, overdue while
// arrears exist, active otherwise. Overdue resolves back to active once the
// arrears clear even if a balance remains.
func DeriveStatus(f *domain.Financing, payments []*domain.Payment, now time.Time, cfg Config) (domain.FinancingStatus, error) {
	if f.SaleType == domain.SaleTypeCash {
		return domain.FinancingStatusCompleted, nil
	}

	ledger, err := BuildLedger(f, payments)
	if err != nil {
		return "", err
	}
	if ledger.PendingAmount == 0 {
		return domain.FinancingStatusCompleted, nil
	}

	arrears, err := ComputeArrears(f, payments, now, cfg)
	if err != nil {
		return "", err
	}
	if arrears.OverdueCount > 0 {
		return domain.FinancingStatusOverdue, nil
	}

	return domain.FinancingStatusActive, nil
}
