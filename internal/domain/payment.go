package domain

import "time"

type PaymentKind string

const (
	PaymentKindInstallment PaymentKind = "installment"
	PaymentKindInitial     PaymentKind = "initial"
	PaymentKindAdjustment  PaymentKind = "adjustment"
)

// Payment is one recorded collection ("cobro") against a financing. Payments
// are created only by the payment service and are never mutated or deleted.
type Payment struct {
	ID          string
	FinancingID string
	Amount      int64
	Date        time.Time
	Kind        PaymentKind
	// InstallmentNumber is 1-based and assigned sequentially among
	// installment-kind payments of the same financing.
	InstallmentNumber int
	Method            string
	ReceiptRef        string
	ReceiptImageURL   string
	Note              string
	CreatedAt         time.Time
}

func NewPayment(financingID string, amount int64, date time.Time, kind PaymentKind, installmentNumber int, method, receiptRef, receiptImageURL, note string) (*Payment, error) {
	if financingID == "" {
		return nil, NewValidationError("financing_id", "financing is required")
	}
	if amount <= 0 {
		return nil, NewValidationError("amount", "amount must be positive")
	}
	if kind != PaymentKindInstallment && kind != PaymentKindInitial && kind != PaymentKindAdjustment {
		return nil, NewValidationError("kind", "unknown payment kind")
	}
	if kind == PaymentKindInstallment && installmentNumber < 1 {
		return nil, NewValidationError("installment_number", "installment number must be 1-based")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Payment{
		FinancingID:       financingID,
		Amount:            amount,
		Date:              date,
		Kind:              kind,
		InstallmentNumber: installmentNumber,
		Method:            method,
		ReceiptRef:        receiptRef,
		ReceiptImageURL:   receiptImageURL,
		Note:              note,
		CreatedAt:         time.Now(),
	}, nil
}

// Persisted reports whether the payment has been written through the
// persistence collaborator. Transient client-side records carry no id and
// never count toward the ledger.
func (p *Payment) Persisted() bool {
	return p.ID != ""
}
