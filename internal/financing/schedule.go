package financing

import (
	"time"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

// InstallmentDueDate returns the theoretical due date of the installment at
// the given 0-based index: start date plus index periods. Installment 0 is
// due on the start date itself - the first installment is already due at
// origination.
func InstallmentDueDate(f *domain.Financing, index int, cfg Config) time.Time {
	return f.StartDate.Add(time.Duration(index) * cfg.Period())
}

// InstallmentsElapsed counts the installments whose due date is on or before
// asOf, capped at the contracted installment count. Cash sales carry no
// schedule and always report zero.
//
// This is the week-boundary convention; the calendar-month variant that used
// to coexist with it produced diverging arrears and is gone on purpose.
func InstallmentsElapsed(f *domain.Financing, asOf time.Time, cfg Config) int {
	if f.SaleType != domain.SaleTypeInstallments || f.Installments <= 0 {
		return 0
	}
	if asOf.Before(f.StartDate) {
		return 0
	}

	elapsed := int(asOf.Sub(f.StartDate)/cfg.Period()) + 1
	if elapsed > f.Installments {
		return f.Installments
	}
	return elapsed
}
