package financing

import "github.com/shopspring/decimal"

// InstallmentValue is the per-installment amount in centavos: total divided
// by the contracted installment count, rounded half up. Every module that
// needs the installment value must use this function; the rounding remainder
// is absorbed by the ledger's amount-based settlement.
func InstallmentValue(total int64, installments int) int64 {
	if installments <= 0 {
		return 0
	}
	return decimal.NewFromInt(total).
		DivRound(decimal.NewFromInt(int64(installments)), 0).
		IntPart()
}

// progressPct computes (total-pending)/total*100 rounded to two decimals.
func progressPct(total, pending int64) float64 {
	if total <= 0 {
		return 0
	}
	if pending <= 0 {
		return 100
	}
	collected := decimal.NewFromInt(total - pending)
	pct, _ := collected.
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return pct
}
