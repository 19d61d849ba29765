package domain

import (
	"fmt"
	"time"
)

type SaleType string

const (
	SaleTypeCash         SaleType = "cash"
	SaleTypeInstallments SaleType = "installments"
)

type FinancingStatus string

const (
	FinancingStatusActive    FinancingStatus = "active"
	FinancingStatusOverdue   FinancingStatus = "overdue"
	FinancingStatusCompleted FinancingStatus = "completed"
)

// LineItem is one product line on a sale. Amounts are in centavos.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice int64
	Subtotal  int64
}

// Financing is a cash or installment sale. Monetary fields are immutable
// after creation; corrections are new records, not edits, so the payment
// trail stays append-only. Status is the only field the payment service
// mutates.
type Financing struct {
	ID            string
	ControlNumber string
	ClientID      string
	Items         []LineItem
	// ProductID/Quantity are the legacy single-product shape still present
	// on old records; Items is authoritative when non-empty.
	ProductID    string
	Quantity     int
	Total        int64
	SaleType     SaleType
	Installments int
	StartDate    time.Time
	Status       FinancingStatus
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewFinancing validates and builds a financing record. For installment sales
// the contracted installment count must be positive; when line items are
// present the total must equal the sum of their subtotals.
func NewFinancing(clientID string, items []LineItem, saleType SaleType, installments int, startDate time.Time, description string) (*Financing, error) {
	if clientID == "" {
		return nil, NewValidationError("client_id", "client is required")
	}
	if saleType != SaleTypeCash && saleType != SaleTypeInstallments {
		return nil, NewValidationError("sale_type", fmt.Sprintf("unknown sale type %q", saleType))
	}
	if saleType == SaleTypeInstallments && installments <= 0 {
		return nil, NewValidationError("installments", "installment count must be positive")
	}
	if len(items) == 0 {
		return nil, NewValidationError("items", "at least one line item is required")
	}

	var total int64
	for i, it := range items {
		if it.ProductID == "" {
			return nil, NewValidationError("items", fmt.Sprintf("item %d: product is required", i))
		}
		if it.Quantity <= 0 {
			return nil, NewValidationError("items", fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if it.UnitPrice < 0 {
			return nil, NewValidationError("items", fmt.Sprintf("item %d: unit price cannot be negative", i))
		}
		if it.Subtotal != int64(it.Quantity)*it.UnitPrice {
			return nil, NewValidationError("items", fmt.Sprintf("item %d: subtotal does not match quantity * unit price", i))
		}
		total += it.Subtotal
	}
	if total <= 0 {
		return nil, NewValidationError("total", "sale total must be positive")
	}

	if startDate.IsZero() {
		startDate = time.Now()
	}

	status := FinancingStatusActive
	if saleType == SaleTypeCash {
		// Cash sales carry no schedule and are settled at creation.
		status = FinancingStatusCompleted
	}

	now := time.Now()
	return &Financing{
		ClientID:     clientID,
		Items:        items,
		Total:        total,
		SaleType:     saleType,
		Installments: installments,
		StartDate:    startDate,
		Status:       status,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// FormatControlNumber renders the human-facing sequential identifier:
// F-000123 for installment financings, C-000123 for cash sales.
func FormatControlNumber(saleType SaleType, seq int64) string {
	prefix := "F"
	if saleType == SaleTypeCash {
		prefix = "C"
	}
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

// IsTerminal reports whether the financing accepts no further payments.
func (f *Financing) IsTerminal() bool {
	return f.Status == FinancingStatusCompleted
}
