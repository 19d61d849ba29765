package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type SaleItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateSaleRequest struct {
	ClientID          string            `json:"client_id"`
	SaleType          string            `json:"sale_type"`
	Installments      int               `json:"installments,omitempty"`
	Items             []SaleItemRequest `json:"items"`
	StartDate         string            `json:"start_date,omitempty"`
	Description       string            `json:"description,omitempty"`
	DownPayment       string            `json:"down_payment,omitempty"`
	DownPaymentMethod string            `json:"down_payment_method,omitempty"`
}

func (r *CreateSaleRequest) Validate() error {
	if r.ClientID == "" {
		return errors.New("client_id is required")
	}
	if r.SaleType != "cash" && r.SaleType != "installments" {
		return errors.New("sale_type must be 'cash' or 'installments'")
	}
	if r.SaleType == "installments" && r.Installments <= 0 {
		return errors.New("installments must be positive for installment sales")
	}
	if len(r.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, it := range r.Items {
		if it.ProductID == "" {
			return errors.New("every item needs a product_id")
		}
		if it.Quantity <= 0 {
			return errors.New("every item needs a positive quantity")
		}
	}
	if r.StartDate != "" {
		if _, err := time.Parse("2006-01-02", r.StartDate); err != nil {
			return errors.New("start_date must be in format 'YYYY-MM-DD'")
		}
	}
	if r.DownPayment != "" {
		if _, err := decimal.NewFromString(r.DownPayment); err != nil {
			return errors.New("down_payment must be a valid decimal number")
		}
	}
	return nil
}

func (r *CreateSaleRequest) GetStartDate() (time.Time, error) {
	if r.StartDate == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", r.StartDate)
}

func (r *CreateSaleRequest) DownPaymentCentavos() (int64, error) {
	if r.DownPayment == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(r.DownPayment)
	if err != nil {
		return 0, err
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, errors.New("down_payment has more than two decimal places")
	}
	return cents.IntPart(), nil
}

type SaleItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

type SaleResponse struct {
	FinancingID   string             `json:"financing_id"`
	ControlNumber string             `json:"control_number"`
	ClientID      string             `json:"client_id"`
	SaleType      string             `json:"sale_type"`
	Installments  int                `json:"installments,omitempty"`
	Total         int64              `json:"total"`
	StartDate     string             `json:"start_date"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items"`
}

type OverdueEntryResponse struct {
	FinancingID   string `json:"financing_id"`
	ControlNumber string `json:"control_number"`
	ClientID      string `json:"client_id"`
	ClientName    string `json:"client_name,omitempty"`
	Total         int64  `json:"total"`
	PendingAmount int64  `json:"pending_amount"`
	OverdueCount  int    `json:"overdue_count"`
	OverdueAmount int64  `json:"overdue_amount"`
	Severity      string `json:"severity"`
}
