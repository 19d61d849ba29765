package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest is the wire shape of a collection. Amounts come in as
// decimal strings ("1500.00") and are converted exactly to centavos.
type ApplyPaymentRequest struct {
	FinancingID     string `json:"financing_id"`
	Amount          string `json:"amount"`
	Date            string `json:"date,omitempty"`
	Method          string `json:"method"`
	ReceiptRef      string `json:"receipt_ref,omitempty"`
	ReceiptImageURL string `json:"receipt_image_url,omitempty"`
	Note            string `json:"note,omitempty"`
}

func (r *ApplyPaymentRequest) Validate() error {
	if r.FinancingID == "" {
		return errors.New("financing_id is required")
	}
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	if r.Method == "" {
		return errors.New("method is required")
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		return errors.New("amount must be a valid decimal number")
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02 15:04:05", r.Date); err != nil {
			return errors.New("date must be in format 'YYYY-MM-DD HH:MM:SS'")
		}
	}
	return nil
}

// AmountCentavos converts the decimal amount string to centavos without
// passing through a float.
func (r *ApplyPaymentRequest) AmountCentavos() (int64, error) {
	d, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return 0, err
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, errors.New("amount has more than two decimal places")
	}
	return cents.IntPart(), nil
}

func (r *ApplyPaymentRequest) GetDate() (time.Time, error) {
	if r.Date == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02 15:04:05", r.Date)
}

type PaymentRecordResponse struct {
	ID                string `json:"id"`
	FinancingID       string `json:"financing_id"`
	Amount            int64  `json:"amount"`
	Date              string `json:"date"`
	Kind              string `json:"kind"`
	InstallmentNumber int    `json:"installment_number,omitempty"`
	Method            string `json:"method,omitempty"`
	ReceiptRef        string `json:"receipt_ref,omitempty"`
	Note              string `json:"note,omitempty"`
}

type ApplyPaymentResponse struct {
	FinancingID      string                  `json:"financing_id"`
	Status           string                  `json:"status"`
	Payments         []PaymentRecordResponse `json:"payments"`
	TotalCollected   int64                   `json:"total_collected"`
	PendingAmount    int64                   `json:"pending_amount"`
	OverpaidAmount   int64                   `json:"overpaid_amount,omitempty"`
	ProgressPct      float64                 `json:"progress_pct"`
	InstallmentsPaid int                     `json:"installments_paid"`
	OverdueCount     int                     `json:"overdue_count"`
	OverdueAmount    int64                   `json:"overdue_amount"`
	Severity         string                  `json:"severity"`
}

type StatementResponse struct {
	FinancingID         string                  `json:"financing_id"`
	ControlNumber       string                  `json:"control_number"`
	ClientID            string                  `json:"client_id"`
	SaleType            string                  `json:"sale_type"`
	Total               int64                   `json:"total"`
	Installments        int                     `json:"installments"`
	StartDate           string                  `json:"start_date"`
	Status              string                  `json:"status"`
	TotalCollected      int64                   `json:"total_collected"`
	PendingAmount       int64                   `json:"pending_amount"`
	OverpaidAmount      int64                   `json:"overpaid_amount,omitempty"`
	ProgressPct         float64                 `json:"progress_pct"`
	InstallmentsPaid    int                     `json:"installments_paid"`
	InstallmentsPending int                     `json:"installments_pending"`
	OverdueCount        int                     `json:"overdue_count"`
	OverdueAmount       int64                   `json:"overdue_amount"`
	Severity            string                  `json:"severity"`
	Payments            []PaymentRecordResponse `json:"payments"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
