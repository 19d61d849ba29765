package financing

import (
	"fmt"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

// Ledger is the aggregated collected/pending/progress view of one
// financing's payments. Settlement is amount-based: the financing is done
// when TotalCollected reaches the total, no matter how the money was split
// across installment numbers. That rule is the single authority for "is this
// financing paid off" and also absorbs the rounding drift of the
// per-installment value.
type Ledger struct {
	TotalCollected      int64
	PendingAmount       int64
	OverpaidAmount      int64
	ProgressPct         float64
	InstallmentsPaid    int
	InstallmentsPending int
}

// BuildLedger aggregates all qualifying payments. Only persisted payments of
// kind installment or initial count toward the collected total; adjustment
// rows and transient client-side records do not.
func BuildLedger(f *domain.Financing, payments []*domain.Payment) (Ledger, error) {
	if err := validateFinancing(f); err != nil {
		return Ledger{}, err
	}

	var collected int64
	paidNumbers := make(map[int]bool)
	for _, p := range payments {
		if !p.Persisted() {
			continue
		}
		switch p.Kind {
		case domain.PaymentKindInstallment:
			collected += p.Amount
			if p.InstallmentNumber > 0 {
				paidNumbers[p.InstallmentNumber] = true
			}
		case domain.PaymentKindInitial:
			collected += p.Amount
		}
	}

	pending := f.Total - collected
	var overpaid int64
	if pending < 0 {
		// Overpayment is surfaced, never silently dropped.
		overpaid = -pending
		pending = 0
	}

	installmentsPending := f.Installments - len(paidNumbers)
	if installmentsPending < 0 {
		installmentsPending = 0
	}

	l := Ledger{
		TotalCollected:      collected,
		PendingAmount:       pending,
		OverpaidAmount:      overpaid,
		ProgressPct:         progressPct(f.Total, pending),
		InstallmentsPaid:    len(paidNumbers),
		InstallmentsPending: installmentsPending,
	}

	if l.OverpaidAmount == 0 && l.TotalCollected+l.PendingAmount != f.Total {
		return Ledger{}, &domain.InvariantViolation{
			Message: fmt.Sprintf("ledger does not reconcile: collected %d + pending %d != total %d",
				l.TotalCollected, l.PendingAmount, f.Total),
		}
	}

	return l, nil
}
